package analysis

import (
	"github.com/mizuki-f/topic-insight/internal/repository"
)

// Sentiment values a Perspective is allowed to carry
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Perspective is one synthesized viewpoint in the final analysis
type Perspective struct {
	Title     string   `json:"title"`
	Sentiment string   `json:"sentiment"`
	KeyPoints []string `json:"key_points"`
	Content   string   `json:"content"`
}

// SourceStats reports how many documents each source contributed to the prompt
type SourceStats struct {
	PerSource map[string]int `json:"per_source"`
	Total     int            `json:"total"`
}

// Result is the root analysis payload returned to the boundary. All slice
// fields are always non-nil so clients never see missing arrays.
type Result struct {
	Summary           string                `json:"summary"`
	Perspectives      []Perspective         `json:"perspectives"`
	ContrastingPoints []string              `json:"contrasting_points"`
	Insights          []string              `json:"insights"`
	Sources           []repository.Document `json:"sources"`
	SourceStats       SourceStats           `json:"source_stats"`
}
