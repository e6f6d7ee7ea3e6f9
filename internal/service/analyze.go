package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/mizuki-f/topic-insight/internal/analysis"
	"github.com/mizuki-f/topic-insight/internal/cache"
)

// Analyze wraps the core pipeline with result caching. Caching lives here,
// outside the pipeline, so swapping or removing the cache backend never
// touches the core semantics.
type Analyze struct {
	pipeline *analysis.Pipeline
	cache    cache.Cache
}

// NewAnalyze creates the analyze service. cache may be nil to disable caching.
func NewAnalyze(pipeline *analysis.Pipeline, resultCache cache.Cache) *Analyze {
	return &Analyze{
		pipeline: pipeline,
		cache:    resultCache,
	}
}

// SourceNames exposes the pipeline's registered sources for introspection
func (s *Analyze) SourceNames() []string {
	return s.pipeline.SourceNames()
}

// Run returns a cached analysis when one exists and delegates to the
// pipeline otherwise. Invalid topics are passed straight through so the
// pipeline's input validation stays the single authority.
func (s *Analyze) Run(ctx context.Context, topic string) (*analysis.Result, error) {
	if s.cache == nil || strings.TrimSpace(topic) == "" {
		return s.pipeline.Run(ctx, topic)
	}

	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	key := cache.Key(topic)

	entry, err := s.cache.Get(ctx, key)
	if err == nil {
		logger.Printf("Cache hit topic=%q age_s=%.0f", topic, time.Since(entry.CreatedAt).Seconds())
		return &entry.Result, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache must not break the request
		logger.Printf("Error reading cache topic=%q: %v", topic, err)
	}

	result, err := s.pipeline.Run(ctx, topic)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, &cache.Entry{Topic: strings.TrimSpace(topic), Result: *result}); err != nil {
		logger.Printf("Error writing cache topic=%q: %v", topic, err)
	}

	return result, nil
}
