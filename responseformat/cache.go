package responseformat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CacheStats mirrors the hit/miss/eviction counters a caller might want to
// export as metrics.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Size      int
	Evictions int64
}

type cacheEntry struct {
	doc        *Document
	name       string
	strict     bool
	expiresAt  time.Time
	accessedAt time.Time
}

// DocumentCache fronts the reflection walk with a cache of derived
// schemas, keyed by the caller-supplied schema key (typically the output
// type's reflected name plus a schema-version tag).
type DocumentCache interface {
	Get(ctx context.Context, key string) (doc *Document, name string, strict bool, found bool, err error)
	Set(ctx context.Context, key string, doc *Document, name string, strict bool, ttl time.Duration) error
	Clear(ctx context.Context) error
	Stats() CacheStats
}

// MemoryCache is an in-process LRU+TTL DocumentCache, the default used
// when no external cache is configured.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	maxSize    int
	defaultTTL time.Duration
	stats      CacheStats
}

func NewMemoryCache(maxSize int, defaultTTL time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &MemoryCache{entries: make(map[string]*cacheEntry), maxSize: maxSize, defaultTTL: defaultTTL}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Document, string, bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, "", false, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.stats.Misses++
		return nil, "", false, false, nil
	}
	entry.accessedAt = time.Now()
	c.stats.Hits++
	return entry.doc, entry.name, entry.strict, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, doc *Document, name string, strict bool, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	now := time.Now()
	c.entries[key] = &cacheEntry{doc: doc, name: name, strict: strict, expiresAt: now.Add(ttl), accessedAt: now}
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.stats = CacheStats{}
	return nil
}

func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}

func (c *MemoryCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.accessedAt.Before(oldestTime) {
			oldestKey, oldestTime = key, entry.accessedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

// persistedDocument is the wire form stored against a Redis key.
type persistedDocument struct {
	Doc    *Document `json:"doc"`
	Name   string    `json:"name"`
	Strict bool      `json:"strict"`
}

func marshalEntry(doc *Document, name string, strict bool) ([]byte, error) {
	return json.Marshal(persistedDocument{Doc: doc, Name: name, Strict: strict})
}

func unmarshalEntry(data []byte) (*Document, string, bool, error) {
	var pd persistedDocument
	if err := json.Unmarshal(data, &pd); err != nil {
		return nil, "", false, fmt.Errorf("responseformat: decode cached schema: %w", err)
	}
	return pd.Doc, pd.Name, pd.Strict, nil
}
