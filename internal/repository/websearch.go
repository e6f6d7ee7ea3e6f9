package repository

import (
	"context"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Hard cap on records per web search, matching the Reddit side.
const webSearchLimit = 10

// GoogleSearchRepository searches the web through the Programmable Search JSON API
type GoogleSearchRepository struct {
	service  *customsearch.Service
	engineID string
}

// NewGoogleSearchRepository creates a web search client for the given API key
// and search engine ID. Extra options are for tests pointing at a fake endpoint.
func NewGoogleSearchRepository(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*GoogleSearchRepository, error) {
	allOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)

	service, err := customsearch.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating customsearch service: %w", err)
	}

	return &GoogleSearchRepository{
		service:  service,
		engineID: engineID,
	}, nil
}

// Search returns up to webSearchLimit web results for the topic
func (g *GoogleSearchRepository) Search(ctx context.Context, topic string) ([]WebResult, error) {
	resp, err := g.service.Cse.List().
		Q(topic).
		Cx(g.engineID).
		Num(webSearchLimit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("searching web for %q: %w", topic, err)
	}

	var results []WebResult
	for _, item := range resp.Items {
		if len(results) >= webSearchLimit {
			break
		}
		results = append(results, WebResult{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		})
	}

	return results, nil
}
