package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "moduleflag:"

// FlagCache keeps module feature-flag lookups out of the hot path of the
// ping gate. Entries expire after a short TTL; any redis failure is treated
// as a miss so callers fall through to the store.
type FlagCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

func NewFlagCache(redisURL string, ttl time.Duration) (*FlagCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewFlagCacheWithClient(client, ttl), nil
}

// NewFlagCacheWithClient wraps an existing client (used by tests).
func NewFlagCacheWithClient(client *redis.Client, ttl time.Duration) *FlagCache {
	return &FlagCache{
		client: client,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

// GetModuleEnabled returns the cached flag value and whether it was found.
func (c *FlagCache) GetModuleEnabled(name string) (enabled bool, ok bool) {
	val, err := c.client.Get(c.ctx, keyPrefix+name).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// SetModuleEnabled caches the flag value for the configured TTL.
// Failures are ignored; the store remains authoritative.
func (c *FlagCache) SetModuleEnabled(name string, enabled bool) {
	val := "0"
	if enabled {
		val = "1"
	}
	_ = c.client.Set(c.ctx, keyPrefix+name, val, c.ttl).Err()
}

// Invalidate drops a cached flag, forcing the next lookup to the store.
func (c *FlagCache) Invalidate(name string) {
	_ = c.client.Del(c.ctx, keyPrefix+name).Err()
}

func (c *FlagCache) Close() error {
	return c.client.Close()
}
