package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiClientGenerateAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected API key in query, got %q", r.URL.Query().Get("key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decoding request: %v", err)
		}
		if req.GenerationConfig.Temperature != 0.5 {
			t.Errorf("Expected temperature 0.5, got %v", req.GenerationConfig.Temperature)
		}
		if req.GenerationConfig.MaxOutputTokens == 0 {
			t.Error("Expected bounded maxOutputTokens")
		}
		if req.GenerationConfig.ResponseMIMEType != "application/json" {
			t.Errorf("Expected JSON response mime type, got %q", req.GenerationConfig.ResponseMIMEType)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "test prompt" {
			t.Error("Expected prompt in request contents")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{
				{Content: geminiContent{Parts: []geminiPart{{Text: `{"summary": "ok"}`}}}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "test-model", 0)
	client.baseURL = server.URL

	raw, err := client.GenerateAnalysis(context.Background(), "test prompt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if raw != `{"summary": "ok"}` {
		t.Errorf("Unexpected raw response %q", raw)
	}
}

func TestGeminiClientNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model overloaded"))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "test-model", 0)
	client.baseURL = server.URL

	_, err := client.GenerateAnalysis(context.Background(), "prompt")

	var synthesis *SynthesisError
	if !errors.As(err, &synthesis) {
		t.Fatalf("Expected SynthesisError, got %T: %v", err, err)
	}
	if synthesis.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", synthesis.StatusCode)
	}
	if synthesis.Body != "model overloaded" {
		t.Errorf("Expected upstream body preserved for logging, got %q", synthesis.Body)
	}
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "test-model", 0)
	client.baseURL = server.URL

	_, err := client.GenerateAnalysis(context.Background(), "prompt")

	var synthesis *SynthesisError
	if !errors.As(err, &synthesis) {
		t.Fatalf("Expected SynthesisError for empty candidates, got %T: %v", err, err)
	}
}
