package responseformat

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed DocumentCache, for sharing derived schemas
// across process instances of the same deployment.
type RedisCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	statsLock  sync.RWMutex
	stats      CacheStats
}

type RedisCacheOptions struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration
}

func NewRedisCache(opts RedisCacheOptions) *RedisCache {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "llmorch:schema"
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 30 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisCache{client: client, prefix: opts.KeyPrefix, defaultTTL: opts.DefaultTTL}
}

// NewRedisCacheWithClient wraps an already-constructed client, used by
// tests to point the cache at a miniredis instance.
func NewRedisCacheWithClient(client redis.UniversalClient, keyPrefix string, defaultTTL time.Duration) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "llmorch:schema"
	}
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &RedisCache{client: client, prefix: keyPrefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) fullKey(key string) string {
	return c.prefix + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Document, string, bool, bool, error) {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		c.recordMiss()
		return nil, "", false, false, nil
	}
	if err != nil {
		return nil, "", false, false, err
	}
	doc, name, strict, err := unmarshalEntry(data)
	if err != nil {
		return nil, "", false, false, err
	}
	c.recordHit()
	return doc, name, strict, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, doc *Document, name string, strict bool, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := marshalEntry(doc, name, strict)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.fullKey(key), data, ttl).Err()
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisCache) Stats() CacheStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()
	return c.stats
}

func (c *RedisCache) recordHit() {
	c.statsLock.Lock()
	c.stats.Hits++
	c.statsLock.Unlock()
}

func (c *RedisCache) recordMiss() {
	c.statsLock.Lock()
	c.stats.Misses++
	c.statsLock.Unlock()
}
