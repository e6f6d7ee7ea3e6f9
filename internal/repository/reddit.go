package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultRedditBaseURL = "https://oauth.reddit.com"

	// Hard cap on records per search. Everything past this adds prompt
	// bulk without adding signal.
	redditSearchLimit = 10
)

// RedditAPIRepository searches Reddit posts for a topic using the OAuth API
type RedditAPIRepository struct {
	tokens     oauth2.TokenSource
	userAgent  string
	baseURL    string
	httpClient *http.Client
}

// NewRedditAPIRepository creates a Reddit search client backed by the given token source
func NewRedditAPIRepository(tokens oauth2.TokenSource, userAgent string) *RedditAPIRepository {
	return &RedditAPIRepository{
		tokens:    tokens,
		userAgent: userAgent,
		baseURL:   defaultRedditBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchPosts searches site-wide Reddit posts matching the topic
func (r *RedditAPIRepository) SearchPosts(ctx context.Context, topic string) ([]RedditPost, error) {
	token, err := r.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	params := url.Values{}
	params.Set("q", topic)
	params.Set("limit", fmt.Sprintf("%d", redditSearchLimit))
	params.Set("sort", "relevance")
	params.Set("t", "year")
	params.Set("raw_json", "1")

	searchURL := fmt.Sprintf("%s/search?%s", r.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	token.SetAuthHeader(req)
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit search failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return parseRedditListing(resp.Body)
}

func parseRedditListing(body io.Reader) ([]RedditPost, error) {
	var listing struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					Permalink   string  `json:"permalink"`
					SelfText    string  `json:"selftext"`
					Subreddit   string  `json:"subreddit"`
					Author      string  `json:"author"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					CreatedUTC  float64 `json:"created_utc"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}

	if err := json.NewDecoder(body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding reddit listing: %w", err)
	}

	var posts []RedditPost
	for _, child := range listing.Data.Children {
		if len(posts) >= redditSearchLimit {
			break
		}

		permalink := child.Data.Permalink
		if permalink != "" {
			permalink = "https://www.reddit.com" + permalink
		}

		posts = append(posts, RedditPost{
			Title:       child.Data.Title,
			Permalink:   permalink,
			SelfText:    child.Data.SelfText,
			Subreddit:   child.Data.Subreddit,
			Author:      child.Data.Author,
			Score:       child.Data.Score,
			NumComments: child.Data.NumComments,
			CreatedUTC:  child.Data.CreatedUTC,
		})
	}

	return posts, nil
}
