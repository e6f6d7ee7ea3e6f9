package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// placeholderSummary is substituted when the model returns no usable summary
const placeholderSummary = "No summary available."

// ValidateResponse parses raw model output and repairs it into a fully
// defaulted Result. The model is instructed to return clean JSON but is not
// contractually guaranteed to: only a completely unparseable response is an
// error, every shape problem (missing field, wrong type, unknown sentiment)
// is repaired in place.
func ValidateResponse(raw string) (*Result, error) {
	jsonStr, ok := extractJSON(raw)
	if !ok {
		return nil, &MalformedResponseError{Err: fmt.Errorf("no JSON object in response")}
	}

	var parsed struct {
		Summary           json.RawMessage `json:"summary"`
		Perspectives      json.RawMessage `json:"perspectives"`
		ContrastingPoints json.RawMessage `json:"contrasting_points"`
		Insights          json.RawMessage `json:"insights"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	summary := strings.TrimSpace(decodeString(parsed.Summary))
	if summary == "" {
		summary = placeholderSummary
	}

	return &Result{
		Summary:           summary,
		Perspectives:      decodePerspectives(parsed.Perspectives),
		ContrastingPoints: decodeStringSlice(parsed.ContrastingPoints),
		Insights:          decodeStringSlice(parsed.Insights),
	}, nil
}

// extractJSON finds the outermost JSON object in the raw text, tolerating
// markdown code fences and stray prose around it
func extractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}") + 1
	if start == -1 || end <= start {
		return "", false
	}

	return trimmed[start:end], true
}

// decodeString returns the value if it is a JSON string, empty otherwise
func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeStringSlice returns the value if it is an array of strings, an empty
// slice otherwise. The result is never nil.
func decodeStringSlice(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return []string{}
	}
	return values
}

// decodePerspectives decodes the perspectives array element by element,
// skipping elements with unusable shapes and coercing each sentiment onto
// the three-value enum
func decodePerspectives(raw json.RawMessage) []Perspective {
	perspectives := []Perspective{}
	if len(raw) == 0 {
		return perspectives
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return perspectives
	}

	for _, element := range elements {
		var parsed struct {
			Title     string          `json:"title"`
			Sentiment string          `json:"sentiment"`
			KeyPoints json.RawMessage `json:"key_points"`
			Content   string          `json:"content"`
		}
		if err := json.Unmarshal(element, &parsed); err != nil {
			continue
		}

		perspectives = append(perspectives, Perspective{
			Title:     parsed.Title,
			Sentiment: coerceSentiment(parsed.Sentiment),
			KeyPoints: decodeStringSlice(parsed.KeyPoints),
			Content:   parsed.Content,
		})
	}

	return perspectives
}

// coerceSentiment maps arbitrary model output onto the sentiment enum.
// Anything unrecognized falls back to Neutral rather than failing the result.
func coerceSentiment(sentiment string) string {
	switch strings.ToLower(strings.TrimSpace(sentiment)) {
	case "positive":
		return SentimentPositive
	case "negative":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
