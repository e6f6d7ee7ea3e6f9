package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Gemini API settings
	GeminiAPIKey string `json:"-"` // Don't expose in JSON
	GeminiModel  string `json:"gemini_model"`

	// Reddit API settings (source disabled when credentials are absent)
	RedditClientID     string `json:"-"`
	RedditClientSecret string `json:"-"`
	RedditUserAgent    string `json:"reddit_user_agent"`

	// Google Programmable Search settings (source disabled when absent)
	SearchAPIKey   string `json:"-"`
	SearchEngineID string `json:"search_engine_id"`

	// HTTP boundary settings (empty token disables auth)
	AuthToken string `json:"-"`

	// Cache settings
	CacheType            string `json:"cache_type"` // "memory" or "cloud-storage"
	CacheDurationMinutes int    `json:"cache_duration_minutes"`

	// Pipeline settings
	SourceTimeoutSeconds int `json:"source_timeout_seconds"`
	SynthesisRPM         int `json:"synthesis_requests_per_minute"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Host:                 getEnvOrDefault("HOST", "0.0.0.0"),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash-preview-05-20"),
		RedditClientID:       getEnvOrDefault("REDDIT_CLIENT_ID", ""),
		RedditClientSecret:   getEnvOrDefault("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:      getEnvOrDefault("REDDIT_USER_AGENT", "topic-insight/1.0"),
		SearchAPIKey:         getEnvOrDefault("SEARCH_API_KEY", ""),
		SearchEngineID:       getEnvOrDefault("SEARCH_ENGINE_ID", ""),
		AuthToken:            getEnvOrDefault("AUTH_TOKEN", ""),
		CacheType:            getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheDurationMinutes: getEnvOrDefaultInt("CACHE_DURATION_MINUTES", 60),
		SourceTimeoutSeconds: getEnvOrDefaultInt("SOURCE_TIMEOUT_SECONDS", 10),
		SynthesisRPM:         getEnvOrDefaultInt("SYNTHESIS_REQUESTS_PER_MINUTE", 15),
	}

	return config, config.validate()
}

// RedditEnabled reports whether the Reddit source has usable credentials
func (c *Config) RedditEnabled() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

// WebSearchEnabled reports whether the web search source has usable credentials
func (c *Config) WebSearchEnabled() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
	}
	if c.CacheType != "memory" && c.CacheType != "cloud-storage" {
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be memory or cloud-storage"}
	}
	if c.CacheDurationMinutes <= 0 {
		return &ConfigError{Field: "CACHE_DURATION_MINUTES", Message: "must be positive"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
