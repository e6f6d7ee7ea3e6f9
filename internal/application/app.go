package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mizuki-f/topic-insight/internal/analysis"
	"github.com/mizuki-f/topic-insight/internal/cache"
	"github.com/mizuki-f/topic-insight/internal/config"
	"github.com/mizuki-f/topic-insight/internal/repository"
	"github.com/mizuki-f/topic-insight/internal/service"
	"github.com/mizuki-f/topic-insight/internal/transport/handler"
)

// Application wires configuration, repositories, the pipeline, and handlers
type Application struct {
	Config         *config.Config
	Cache          cache.Cache
	AnalyzeService *service.Analyze
	AnalyzeHandler *handler.Analyze
	SourcesHandler *handler.Sources
	cleanup        func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Result cache
	cacheDuration := time.Duration(cfg.CacheDurationMinutes) * time.Minute
	var resultCache cache.Cache
	switch cfg.CacheType {
	case "cloud-storage":
		resultCache, err = cache.NewCloudStorageCache(ctx, cacheDuration)
		if err != nil {
			return nil, fmt.Errorf("creating cloud storage cache: %w", err)
		}
	default:
		resultCache = cache.NewMemoryCache(cacheDuration)
	}

	// Content sources. A source without credentials is skipped, not fatal:
	// the pipeline degrades to fewer sources.
	var sources []analysis.Source

	if cfg.RedditEnabled() {
		tokens := repository.NewRedditTokenSource(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
		redditRepo := repository.NewRedditAPIRepository(tokens, cfg.RedditUserAgent)
		sources = append(sources, analysis.NewRedditSource(redditRepo))
	} else {
		log.Printf("Reddit source disabled: credentials not configured")
	}

	if cfg.WebSearchEnabled() {
		webRepo, err := repository.NewGoogleSearchRepository(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			return nil, fmt.Errorf("creating web search repository: %w", err)
		}
		sources = append(sources, analysis.NewWebSource(webRepo))
	} else {
		log.Printf("Web search source disabled: credentials not configured")
	}

	// Core pipeline and service
	gemini := repository.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SynthesisRPM)
	pipeline := analysis.NewPipeline(gemini, time.Duration(cfg.SourceTimeoutSeconds)*time.Second, sources...)
	analyzeService := service.NewAnalyze(pipeline, resultCache)

	cleanup := func() error {
		return resultCache.Close()
	}

	return &Application{
		Config:         cfg,
		Cache:          resultCache,
		AnalyzeService: analyzeService,
		AnalyzeHandler: handler.NewAnalyze(analyzeService),
		SourcesHandler: handler.NewSources(analyzeService),
		cleanup:        cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
