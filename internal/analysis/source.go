package analysis

import (
	"context"
	"log"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/mizuki-f/topic-insight/internal/repository"
)

// Source is one registered content provider in the pipeline fan-out. Fetch
// must never fail: any upstream error (network, auth, non-2xx, malformed
// payload) degrades to an empty document list. An empty result from one
// source is an expected outcome, not an exceptional one.
type Source interface {
	Name() string
	Fetch(ctx context.Context, topic string) []repository.Document
}

// RedditSource adapts the Reddit repository into a fail-safe pipeline source
type RedditSource struct {
	repo repository.RedditRepository
}

func NewRedditSource(repo repository.RedditRepository) *RedditSource {
	return &RedditSource{repo: repo}
}

func (s *RedditSource) Name() string {
	return SourceReddit
}

func (s *RedditSource) Fetch(ctx context.Context, topic string) []repository.Document {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)

	posts, err := s.repo.SearchPosts(ctx, topic)
	if err != nil {
		logger.Printf("Error fetching source=reddit topic=%q: %v", topic, err)
		return nil
	}

	return NormalizeReddit(posts)
}

// WebSource adapts the web search repository into a fail-safe pipeline source
type WebSource struct {
	repo repository.WebSearchRepository
}

func NewWebSource(repo repository.WebSearchRepository) *WebSource {
	return &WebSource{repo: repo}
}

func (s *WebSource) Name() string {
	return SourceWeb
}

func (s *WebSource) Fetch(ctx context.Context, topic string) []repository.Document {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)

	results, err := s.repo.Search(ctx, topic)
	if err != nil {
		logger.Printf("Error fetching source=web topic=%q: %v", topic, err)
		return nil
	}

	return NormalizeWeb(results)
}
