package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mizuki-f/topic-insight/internal/mocks"
	"github.com/mizuki-f/topic-insight/internal/repository"
)

const validAnalysisJSON = `{
	"summary": "Electric vehicles are a contested but growing technology.",
	"perspectives": [
		{"title": "Proponents", "sentiment": "Positive", "key_points": ["lower running costs"], "content": "..."},
		{"title": "Pragmatists", "sentiment": "Neutral", "key_points": [], "content": "..."}
	],
	"contrasting_points": ["grid impact estimates vary widely"],
	"insights": []
}`

func TestPipelineRun(t *testing.T) {
	redditDocs := []repository.Document{
		{Source: SourceReddit, Title: "Post one", Snippet: "body"},
		{Source: SourceReddit, Title: "Post two", Snippet: "body"},
	}

	sourceA := &mocks.MockSource{SourceName: SourceReddit, Documents: redditDocs}
	sourceB := &mocks.MockSource{SourceName: SourceWeb} // simulated failure: no documents
	gemini := &mocks.MockGeminiRepo{Response: validAnalysisJSON}

	pipeline := NewPipeline(gemini, time.Second, sourceA, sourceB)

	result, err := pipeline.Run(context.Background(), "electric vehicles")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.SourceStats.PerSource[SourceReddit] != 2 {
		t.Errorf("Expected 2 Reddit documents in stats, got %d", result.SourceStats.PerSource[SourceReddit])
	}
	if result.SourceStats.PerSource[SourceWeb] != 0 {
		t.Errorf("Expected 0 Web documents in stats, got %d", result.SourceStats.PerSource[SourceWeb])
	}
	if result.SourceStats.Total != 2 {
		t.Errorf("Expected total 2, got %d", result.SourceStats.Total)
	}
	if len(result.Perspectives) != 2 {
		t.Errorf("Expected 2 perspectives, got %d", len(result.Perspectives))
	}
	if result.Insights == nil || len(result.Insights) != 0 {
		t.Errorf("Expected empty non-nil insights, got %#v", result.Insights)
	}
	if len(result.Sources) != 2 {
		t.Errorf("Expected 2 echoed source documents, got %d", len(result.Sources))
	}
}

func TestPipelineRunEmptyTopic(t *testing.T) {
	source := &mocks.MockSource{SourceName: SourceReddit}
	gemini := &mocks.MockGeminiRepo{Response: validAnalysisJSON}
	pipeline := NewPipeline(gemini, time.Second, source)

	for _, topic := range []string{"", "   ", "\n\t"} {
		_, err := pipeline.Run(context.Background(), topic)

		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("Expected InvalidInputError for topic %q, got %v", topic, err)
		}
	}

	// Rejection happens before any network activity
	if source.Calls() != 0 {
		t.Errorf("Expected no source calls, got %d", source.Calls())
	}
	if gemini.Calls() != 0 {
		t.Errorf("Expected no synthesis calls, got %d", gemini.Calls())
	}
}

func TestPipelineRunAllSourcesEmpty(t *testing.T) {
	sourceA := &mocks.MockSource{SourceName: SourceReddit}
	sourceB := &mocks.MockSource{SourceName: SourceWeb}
	gemini := &mocks.MockGeminiRepo{Response: `{"summary": "from background knowledge"}`}
	pipeline := NewPipeline(gemini, time.Second, sourceA, sourceB)

	result, err := pipeline.Run(context.Background(), "obscure topic")
	if err != nil {
		t.Fatalf("Source failures must not cascade into pipeline failure: %v", err)
	}

	if result.Summary != "from background knowledge" {
		t.Errorf("Unexpected summary %q", result.Summary)
	}
	if result.SourceStats.Total != 0 {
		t.Errorf("Expected total 0, got %d", result.SourceStats.Total)
	}
	if result.Sources == nil || len(result.Sources) != 0 {
		t.Errorf("Expected empty non-nil sources, got %#v", result.Sources)
	}
}

func TestPipelineRunSynthesisFailure(t *testing.T) {
	source := &mocks.MockSource{SourceName: SourceWeb}
	gemini := &mocks.MockGeminiRepo{Err: &repository.SynthesisError{StatusCode: 503, Body: "upstream down"}}
	pipeline := NewPipeline(gemini, time.Second, source)

	_, err := pipeline.Run(context.Background(), "anything")

	var synthesis *repository.SynthesisError
	if !errors.As(err, &synthesis) {
		t.Fatalf("Expected SynthesisError to propagate unchanged, got %v", err)
	}
	if synthesis.StatusCode != 503 {
		t.Errorf("Expected status 503, got %d", synthesis.StatusCode)
	}
}

func TestPipelineRunMalformedResponse(t *testing.T) {
	source := &mocks.MockSource{SourceName: SourceWeb}
	gemini := &mocks.MockGeminiRepo{Response: "not json"}
	pipeline := NewPipeline(gemini, time.Second, source)

	_, err := pipeline.Run(context.Background(), "anything")

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedResponseError to propagate unchanged, got %v", err)
	}
}

func TestPipelineFanOutIsConcurrent(t *testing.T) {
	latencies := []time.Duration{
		50 * time.Millisecond,
		80 * time.Millisecond,
		120 * time.Millisecond,
	}

	sources := make([]Source, 0, len(latencies))
	var sum time.Duration
	for i, latency := range latencies {
		sources = append(sources, &mocks.MockSource{
			SourceName: string(rune('A' + i)),
			Latency:    latency,
		})
		sum += latency
	}

	gemini := &mocks.MockGeminiRepo{Response: validAnalysisJSON}
	pipeline := NewPipeline(gemini, time.Second, sources...)

	start := time.Now()
	if _, err := pipeline.Run(context.Background(), "timing"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	slowest := latencies[len(latencies)-1]
	if elapsed < slowest {
		t.Errorf("Fan-out finished in %v, faster than the slowest source %v", elapsed, slowest)
	}
	if elapsed >= sum {
		t.Errorf("Fan-out took %v, expected close to max latency %v, not the sum %v", elapsed, slowest, sum)
	}
}

func TestPipelineSourceNames(t *testing.T) {
	pipeline := NewPipeline(&mocks.MockGeminiRepo{}, time.Second,
		&mocks.MockSource{SourceName: SourceReddit},
		&mocks.MockSource{SourceName: SourceWeb},
	)

	names := pipeline.SourceNames()
	if len(names) != 2 || names[0] != SourceReddit || names[1] != SourceWeb {
		t.Errorf("Expected registration-order names, got %v", names)
	}
}
