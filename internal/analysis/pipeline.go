package analysis

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"golang.org/x/sync/errgroup"

	"github.com/mizuki-f/topic-insight/internal/repository"
)

const defaultSourceTimeout = 10 * time.Second

// Pipeline orchestrates source fan-out, normalization, prompt construction,
// synthesis, and response validation. It holds no per-request state; each
// Run is an independent execution.
type Pipeline struct {
	sources       []Source
	gemini        repository.GeminiRepository
	sourceTimeout time.Duration
}

// NewPipeline creates a pipeline over the given synthesis client and sources.
// Source registration order decides document order in the prompt; it does
// not imply relevance ranking.
func NewPipeline(gemini repository.GeminiRepository, sourceTimeout time.Duration, sources ...Source) *Pipeline {
	if sourceTimeout <= 0 {
		sourceTimeout = defaultSourceTimeout
	}
	return &Pipeline{
		sources:       sources,
		gemini:        gemini,
		sourceTimeout: sourceTimeout,
	}
}

// SourceNames returns the registered source names in registration order
func (p *Pipeline) SourceNames() []string {
	names := make([]string, 0, len(p.sources))
	for _, src := range p.sources {
		names = append(names, src.Name())
	}
	return names
}

// Run produces a full analysis for the topic. Source failures are absorbed
// (the analysis proceeds with whatever sources succeeded, even zero);
// synthesis and parse failures propagate as their typed errors.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &InvalidInputError{Reason: "topic is required"}
	}

	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	start := time.Now()
	logger.Printf("Analysis started topic=%q sources=%d", topic, len(p.sources))

	perSource := p.fetchAll(ctx, topic)

	documents := []repository.Document{}
	stats := SourceStats{PerSource: make(map[string]int, len(p.sources))}
	for i, src := range p.sources {
		docs := perSource[i]
		stats.PerSource[src.Name()] = len(docs)
		stats.Total += len(docs)
		documents = append(documents, docs...)
	}
	logger.Printf("Source fetch completed topic=%q documents=%d", topic, stats.Total)

	prompt := BuildPrompt(topic, documents)

	raw, err := p.gemini.GenerateAnalysis(ctx, prompt)
	if err != nil {
		logger.Printf("Error generating analysis topic=%q: %v", topic, err)
		return nil, err
	}

	result, err := ValidateResponse(raw)
	if err != nil {
		logger.Printf("Error validating analysis topic=%q: %v", topic, err)
		return nil, err
	}

	result.Sources = documents
	result.SourceStats = stats

	logger.Printf("Analysis completed topic=%q documents=%d perspectives=%d duration_ms=%d",
		topic, stats.Total, len(result.Perspectives), time.Since(start).Milliseconds())

	return result, nil
}

// fetchAll queries every source concurrently, so total fetch time tracks the
// slowest source rather than the sum. Sources are fail-safe, which keeps the
// fan-out itself infallible; result slots preserve registration order.
func (p *Pipeline) fetchAll(ctx context.Context, topic string) [][]repository.Document {
	results := make([][]repository.Document, len(p.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		i, src := i, src
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
			defer cancel()

			results[i] = src.Fetch(fetchCtx, topic)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
