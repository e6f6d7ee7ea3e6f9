package repository

import (
	"context"
)

// Document is the canonical normalized unit of source content fed into the
// analysis prompt. It is created once during normalization and never mutated
// afterwards.
type Document struct {
	Source   string                 `json:"source"`
	Title    string                 `json:"title"`
	URL      string                 `json:"url"`
	Snippet  string                 `json:"snippet"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RedditPost represents one raw search result from the Reddit API
type RedditPost struct {
	Title       string
	Permalink   string
	SelfText    string
	Subreddit   string
	Author      string
	Score       int
	NumComments int
	CreatedUTC  float64
}

// WebResult represents one raw result from the web search API
type WebResult struct {
	Title       string
	Link        string
	Snippet     string
	DisplayLink string
}

// RedditRepository defines topic search against the Reddit API
type RedditRepository interface {
	SearchPosts(ctx context.Context, topic string) ([]RedditPost, error)
}

// WebSearchRepository defines topic search against the web search API
type WebSearchRepository interface {
	Search(ctx context.Context, topic string) ([]WebResult, error)
}

// GeminiRepository defines the synthesis call against the Gemini API
type GeminiRepository interface {
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
}
