package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mizuki-f/topic-insight/internal/repository"
)

// outputSchema is copied verbatim into every prompt. The validator depends
// on the model following it, so it is never abbreviated or paraphrased.
const outputSchema = `{
  "summary": "2-3 sentence balanced overview of the topic",
  "perspectives": [
    {
      "title": "short label for this viewpoint",
      "sentiment": "Positive",
      "key_points": ["short claim supporting this viewpoint"],
      "content": "longer elaboration of the viewpoint"
    }
  ],
  "contrasting_points": ["where the viewpoints disagree with each other"],
  "insights": ["non-obvious takeaway about the topic"]
}`

// BuildPrompt assembles the full instruction block sent to the model:
// analytical preamble, the topic, a 1-indexed listing of every document,
// and the exact JSON schema the response must follow.
func BuildPrompt(topic string, documents []repository.Document) string {
	var content strings.Builder

	content.WriteString("You are a balanced research analyst. Analyze the topic below from multiple viewpoints, ")
	content.WriteString("weighing the source material fairly and without editorializing.\n\n")

	content.WriteString(fmt.Sprintf("Topic: %s\n\n", topic))

	if len(documents) == 0 {
		content.WriteString("No source material could be retrieved for this topic. ")
		content.WriteString("Rely on your own background knowledge instead. ")
		content.WriteString("Do not fabricate source citations.\n\n")
	} else {
		content.WriteString("Source material:\n")
		for i, doc := range documents {
			content.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, doc.Source, doc.Title))
			if doc.Snippet != "" {
				content.WriteString(fmt.Sprintf("   Excerpt: %s\n", doc.Snippet))
			}
			if len(doc.Metadata) > 0 {
				// encoding/json sorts map keys, so the rendering is deterministic
				if meta, err := json.Marshal(doc.Metadata); err == nil {
					content.WriteString(fmt.Sprintf("   Metadata: %s\n", meta))
				}
			}
		}
		content.WriteString("\n")
	}

	content.WriteString("Respond with a JSON object matching exactly this schema:\n\n")
	content.WriteString(outputSchema)
	content.WriteString("\n\n")
	content.WriteString("Rules:\n")
	content.WriteString("- \"sentiment\" must be exactly one of \"Positive\", \"Negative\", \"Neutral\".\n")
	content.WriteString("- Fields with no findings must be empty arrays, never null and never omitted.\n")
	content.WriteString("- The entire response must be valid JSON and nothing else.\n")

	return content.String()
}
