package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/mizuki-f/topic-insight/internal/analysis"
)

// ErrCacheMiss is returned when no valid entry exists for a key
var ErrCacheMiss = errors.New("cache miss")

// Cache stores finished analysis results keyed by topic. It sits outside the
// pipeline: correctness never depends on it.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Cleanup(ctx context.Context) error
	Close() error
}

// Entry represents one cached analysis
type Entry struct {
	Key       string          `json:"key"`
	Topic     string          `json:"topic"`
	Result    analysis.Result `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Key derives the cache key for a topic. Keys are case-insensitive so
// "Electric Vehicles" and "electric vehicles" share an entry.
func Key(topic string) string {
	normalized := strings.ToLower(strings.TrimSpace(topic))
	return fmt.Sprintf("%x", md5.Sum([]byte(normalized)))
}

// MemoryCache implements Cache in process memory
type MemoryCache struct {
	entries     map[string]*Entry
	mutex       sync.RWMutex
	duration    time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates an in-memory cache whose entries live for duration.
// A background goroutine sweeps expired entries until Close is called.
func NewMemoryCache(duration time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]*Entry),
		duration:    duration,
		stopCleanup: make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, ErrCacheMiss
	}

	return entry, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, entry *Entry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(c.duration)
	c.entries[key] = entry

	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
	return nil
}

// Cleanup removes expired entries immediately
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.cleanupExpired()
	return nil
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

func (c *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCleanup:
			return
		case <-ticker.C:
			c.cleanupExpired()
		}
	}
}

func (c *MemoryCache) cleanupExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}

// CloudStorageCache implements Cache on a Google Cloud Storage bucket so
// cached analyses survive across Cloud Functions instances
type CloudStorageCache struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageCache creates a Cloud Storage backed cache. The bucket name
// comes from CACHE_BUCKET when set.
func NewCloudStorageCache(ctx context.Context, duration time.Duration) (*CloudStorageCache, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	bucketName := "topic-insight-cache"
	if env := os.Getenv("CACHE_BUCKET"); env != "" {
		bucketName = env
	}

	return &CloudStorageCache{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "analyses/",
	}, nil
}

func (c *CloudStorageCache) objectName(key string) string {
	return c.prefix + key + ".json"
}

func (c *CloudStorageCache) Get(ctx context.Context, key string) (*Entry, error) {
	reader, err := c.client.Bucket(c.bucketName).Object(c.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening cache object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading cache object: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrCacheMiss
	}

	return &entry, nil
}

func (c *CloudStorageCache) Set(ctx context.Context, key string, entry *Entry) error {
	now := time.Now()
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(c.duration)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	writer := c.client.Bucket(c.bucketName).Object(c.objectName(key)).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing cache object: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing cache object: %w", err)
	}

	return nil
}

func (c *CloudStorageCache) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucketName).Object(c.objectName(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting cache object: %w", err)
	}
	return nil
}

// Cleanup walks the cache prefix and deletes every expired entry. Intended
// to run on a schedule, since Cloud Storage has no per-object expiry check
// of its own at read time.
func (c *CloudStorageCache) Cleanup(ctx context.Context) error {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: c.prefix})

	now := time.Now()
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing cache objects: %w", err)
		}

		key := strings.TrimSuffix(strings.TrimPrefix(attrs.Name, c.prefix), ".json")
		entry, err := c.Get(ctx, key)
		if errors.Is(err, ErrCacheMiss) {
			// Expired, delete the object itself
			if err := c.Delete(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if now.After(entry.ExpiresAt) {
			if err := c.Delete(ctx, key); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *CloudStorageCache) Close() error {
	return c.client.Close()
}
