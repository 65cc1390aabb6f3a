package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dsnsgithub/activity-feed/internal/domain"
	"github.com/dsnsgithub/activity-feed/internal/metrics"
)

// CachingClient wraps a Client and caches repository listings with a TTL.
// Event listings and resource details pass through untouched; the activity
// service owns its own envelope and detail memo.
type CachingClient struct {
	client  Client
	cache   *cache
	metrics *metrics.Metrics
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client Client, cacheDuration time.Duration, m *metrics.Metrics) *CachingClient {
	return &CachingClient{
		client:  client,
		cache:   newCache(cacheDuration),
		metrics: m,
	}
}

// ListUserEvents is not cached.
func (c *CachingClient) ListUserEvents(ctx context.Context, username string, perPage int) ([]domain.RawEvent, error) {
	return c.client.ListUserEvents(ctx, username, perPage)
}

// GetResource is not cached.
func (c *CachingClient) GetResource(ctx context.Context, apiURL string) (*ResourceDetail, error) {
	return c.client.GetResource(ctx, apiURL)
}

// ListUserRepositories retrieves repositories with caching.
func (c *CachingClient) ListUserRepositories(ctx context.Context, username string) ([]domain.Project, error) {
	key := fmt.Sprintf("ListUserRepositories:%s", username)

	if cached, found := c.cache.get(key); found {
		if projects, ok := cached.([]domain.Project); ok {
			c.metrics.CacheHit("repositories")
			slog.DebugContext(ctx, "cache hit", "key", key, "count", len(projects))
			return projects, nil
		}
	}

	c.metrics.CacheMiss("repositories")
	projects, err := c.client.ListUserRepositories(ctx, username)
	if err != nil {
		return nil, err
	}

	c.cache.set(key, projects)
	slog.DebugContext(ctx, "cached", "key", key, "count", len(projects))

	return projects, nil
}

// cache implements a thread-safe TTL cache.
type cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	duration time.Duration
	now      func() time.Time
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// newCache creates a new cache with the specified duration.
func newCache(duration time.Duration) *cache {
	c := &cache{
		entries:  make(map[string]*cacheEntry),
		duration: duration,
		now:      time.Now,
	}

	go c.cleanup()

	return c
}

// get retrieves a value from cache.
func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

// set stores a value in cache with TTL.
func (c *cache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.duration),
	}
}

// cleanup periodically removes expired entries.
func (c *cache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := c.now()
		for key, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
