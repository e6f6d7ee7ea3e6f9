package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const defaultRedditTokenURL = "https://www.reddit.com/api/v1/access_token"

// RedditTokenSource obtains Reddit application-only access tokens via the
// client-credentials grant and caches one token process-wide until it is
// about to expire. It implements oauth2.TokenSource so the Reddit client
// stays agnostic of how credentials are obtained.
type RedditTokenSource struct {
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	httpClient   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
	now   func() time.Time
}

// NewRedditTokenSource creates a token source for the given Reddit app credentials
func NewRedditTokenSource(clientID, clientSecret, userAgent string) *RedditTokenSource {
	return &RedditTokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     defaultRedditTokenURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Token returns the cached token while it is still valid and fetches a new
// one otherwise. Tokens within one minute of expiry count as expired so a
// long source fetch never runs with a token that dies mid-request.
func (s *RedditTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Expiry.After(s.now().Add(1*time.Minute)) {
		return s.token, nil
	}

	token, err := s.fetchToken()
	if err != nil {
		return nil, fmt.Errorf("fetching reddit access token: %w", err)
	}

	s.token = token
	return s.token, nil
}

func (s *RedditTokenSource) fetchToken() (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequest("POST", s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response contained no access_token")
	}

	return &oauth2.Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		Expiry:      s.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
