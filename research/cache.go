package research

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a search response stays cached.
const DefaultCacheTTL = 6 * time.Hour

// Cache stores raw search responses in Redis. Every operation degrades
// silently: an unreachable Redis turns the cache into a pass-through, never
// into a search failure.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// CacheConfig carries the Redis connection settings.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewCache connects a cache. An empty address returns nil, which callers
// treat as caching disabled.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.Addr == "" {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns a cached payload.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a payload with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
