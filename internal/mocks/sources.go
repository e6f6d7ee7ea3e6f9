package mocks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mizuki-f/topic-insight/internal/repository"
)

// Mock Reddit Repository
type MockRedditRepo struct {
	Posts []repository.RedditPost
	Err   error
	calls int64
}

func (m *MockRedditRepo) SearchPosts(ctx context.Context, topic string) ([]repository.RedditPost, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Posts, nil
}

func (m *MockRedditRepo) Calls() int {
	return int(atomic.LoadInt64(&m.calls))
}

// Mock Web Search Repository
type MockWebSearchRepo struct {
	Results []repository.WebResult
	Err     error
	calls   int64
}

func (m *MockWebSearchRepo) Search(ctx context.Context, topic string) ([]repository.WebResult, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

func (m *MockWebSearchRepo) Calls() int {
	return int(atomic.LoadInt64(&m.calls))
}

// MockSource is a pipeline source with configurable documents and latency
type MockSource struct {
	SourceName string
	Documents  []repository.Document
	Latency    time.Duration
	calls      int64
}

func (m *MockSource) Name() string {
	return m.SourceName
}

func (m *MockSource) Fetch(ctx context.Context, topic string) []repository.Document {
	atomic.AddInt64(&m.calls, 1)
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil
		}
	}
	return m.Documents
}

func (m *MockSource) Calls() int {
	return int(atomic.LoadInt64(&m.calls))
}
