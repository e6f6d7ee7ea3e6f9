package mocks

import (
	"context"
	"sync/atomic"
)

// Mock Gemini Repository
type MockGeminiRepo struct {
	Response string
	Err      error
	calls    int64
}

func (m *MockGeminiRepo) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Calls reports how many times GenerateAnalysis was invoked
func (m *MockGeminiRepo) Calls() int {
	return int(atomic.LoadInt64(&m.calls))
}
