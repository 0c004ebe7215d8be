package services

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rhit-reddyap/FitFusion-backend-sub003/models"
)

const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 512
)

// CacheEntry is a cached value and the time it was stored.
type CacheEntry[V any] struct {
	Value      V
	InsertedAt time.Time
}

// TTLCache is a size-bounded cache whose entries expire ttl after insertion.
// Expired entries read as misses and stay stored until overwritten or
// evicted; reads never remove, so a concurrent Set cannot be lost. When
// full, the least recently used entry is evicted. Concurrent Sets on one
// key are last-write-wins.
type TTLCache[V any] struct {
	entries *lru.Cache[string, CacheEntry[V]]
	ttl     time.Duration
	now     func() time.Time
}

// CacheOption customizes a TTLCache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(o *cacheOptions) { o.now = now }
}

func NewTTLCache[V any](size int, ttl time.Duration, opts ...CacheOption) (*TTLCache[V], error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	o := cacheOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	entries, err := lru.New[string, CacheEntry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &TTLCache[V]{entries: entries, ttl: ttl, now: o.now}, nil
}

// Get returns the value for key if present and younger than the ttl.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.InsertedAt) >= c.ttl {
		return zero, false
	}
	return e.Value, true
}

func (c *TTLCache[V]) Set(key string, v V) {
	c.entries.Add(key, CacheEntry[V]{Value: v, InsertedAt: c.now()})
}

func (c *TTLCache[V]) Delete(key string) {
	c.entries.Remove(key)
}

// Len counts stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	return c.entries.Len()
}

func (c *TTLCache[V]) Purge() {
	c.entries.Purge()
}

func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// CachedLookup is what the aggregator stores: either a search page or a
// single record.
type CachedLookup struct {
	Search *models.SearchResult
	Record *models.NormalizedFoodRecord
}

// FoodCache is the process-wide lookup cache shared by the aggregator.
type FoodCache = TTLCache[CachedLookup]

func NewFoodCache(size int, ttl time.Duration, opts ...CacheOption) (*FoodCache, error) {
	return NewTTLCache[CachedLookup](size, ttl, opts...)
}
