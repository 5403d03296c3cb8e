package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// itemsCacheKey is the fixed versioned key for the active item listing. Bump
// the suffix when the cached shape changes.
const itemsCacheKey = "storage:all_items:v2"

// Cache wraps Redis based read caching with a bounded TTL. The cache is a
// performance layer only: a nil client or an unreachable Redis degrades to
// loading from the store, so cold and warm paths return identical results.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// FetchJSON loads a cached value or populates it using the loader. Redis
// failures on either side of the loader are logged and absorbed; only the
// loader itself can fail the read.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		c.warn("cache read failed", key, err)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warn("cache write failed", key, err)
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) warn(msg, key string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, slog.String("key", key), slog.Any("error", err))
}
