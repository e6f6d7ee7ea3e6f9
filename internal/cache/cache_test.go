package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mizuki-f/topic-insight/internal/analysis"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	entry := &Entry{
		Topic: "electric vehicles",
		Result: analysis.Result{
			Summary:      "Test summary",
			Perspectives: []analysis.Perspective{{Title: "Optimists", Sentiment: analysis.SentimentPositive}},
		},
	}

	key := Key("electric vehicles")
	if err := cache.Set(ctx, key, entry); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	retrieved, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}
	if retrieved.Topic != entry.Topic {
		t.Errorf("Expected topic %q, got %q", entry.Topic, retrieved.Topic)
	}
	if retrieved.Result.Summary != "Test summary" {
		t.Errorf("Expected summary preserved, got %q", retrieved.Result.Summary)
	}
	if retrieved.CreatedAt.IsZero() || retrieved.ExpiresAt.IsZero() {
		t.Error("Expected timestamps to be stamped on Set")
	}

	// Miss for unknown key
	if _, err := cache.Get(ctx, "non-existent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}

	// Delete
	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	key := Key("short lived")
	if err := cache.Set(ctx, key, &Entry{Topic: "short lived"}); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Expected valid entry before expiry: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	for _, topic := range []string{"one", "two", "three"} {
		if err := cache.Set(ctx, Key(topic), &Entry{Topic: topic}); err != nil {
			t.Fatalf("Failed to set: %v", err)
		}
	}

	time.Sleep(30 * time.Millisecond)

	if err := cache.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	cache.mutex.RLock()
	remaining := len(cache.entries)
	cache.mutex.RUnlock()
	if remaining != 0 {
		t.Errorf("Expected all expired entries removed, %d remain", remaining)
	}
}

func TestKeyNormalization(t *testing.T) {
	if Key("Electric Vehicles") != Key("electric vehicles") {
		t.Error("Expected case-insensitive keys")
	}
	if Key("  topic  ") != Key("topic") {
		t.Error("Expected whitespace-insensitive keys")
	}
	if Key("topic a") == Key("topic b") {
		t.Error("Expected distinct topics to produce distinct keys")
	}
}
