package analysis

import (
	"strings"

	"github.com/mizuki-f/topic-insight/internal/repository"
)

// Source tags attached to normalized documents
const (
	SourceReddit = "Reddit"
	SourceWeb    = "Web"
)

// snippetMaxLen bounds how much excerpt text a single document may carry
// into the prompt.
const snippetMaxLen = 500

// NormalizeReddit maps raw Reddit search results into canonical documents.
// Records with neither a title nor any body text are dropped.
func NormalizeReddit(posts []repository.RedditPost) []repository.Document {
	var docs []repository.Document
	for _, post := range posts {
		doc := repository.Document{
			Source:  SourceReddit,
			Title:   strings.TrimSpace(post.Title),
			URL:     post.Permalink,
			Snippet: truncateSnippet(post.SelfText),
			Metadata: map[string]interface{}{
				"subreddit":    post.Subreddit,
				"author":       post.Author,
				"score":        post.Score,
				"num_comments": post.NumComments,
				"created_utc":  post.CreatedUTC,
			},
		}
		if isEmptyDocument(doc) {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// NormalizeWeb maps raw web search results into canonical documents
func NormalizeWeb(results []repository.WebResult) []repository.Document {
	var docs []repository.Document
	for _, result := range results {
		doc := repository.Document{
			Source:  SourceWeb,
			Title:   strings.TrimSpace(result.Title),
			URL:     result.Link,
			Snippet: truncateSnippet(result.Snippet),
			Metadata: map[string]interface{}{
				"display_link": result.DisplayLink,
			},
		}
		if isEmptyDocument(doc) {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// isEmptyDocument reports whether a document carries no usable signal
func isEmptyDocument(doc repository.Document) bool {
	return doc.Title == "" && doc.Snippet == ""
}

// truncateSnippet trims whitespace and cuts the text to snippetMaxLen runes
func truncateSnippet(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= snippetMaxLen {
		return trimmed
	}
	return string(runes[:snippetMaxLen]) + "..."
}
