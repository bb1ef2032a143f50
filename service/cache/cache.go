/*
 * @module service/cache/cache
 * @description Optional redis cache for dashboard aggregates. When REDIS_URL
 *              is unset every operation is a silent miss, so callers never
 *              branch on cache availability.
 * @architecture Layered - infrastructure support
 * @stateFlow dashboard read -> cache get -> on miss compute + set with TTL
 * @rules Cache failures degrade to recomputation, never to request errors
 * @dependencies github.com/go-redis/redis/v8
 */

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL how long dashboard aggregates stay cached.
const DefaultTTL = 5 * time.Minute

// Client a nil-safe cache handle. A zero-value or unconfigured client is a
// valid no-op cache.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to redis when url is set; otherwise returns a no-op
// client.
func NewClient(url string) *Client {
	if url == "" {
		return &Client{}
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("invalid REDIS_URL, cache disabled", "error", err)
		return &Client{}
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, cache disabled", "error", err)
		return &Client{}
	}

	slog.Info("redis cache enabled")
	return &Client{rdb: rdb}
}

// Enabled reports whether a backing connection exists.
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON loads a cached value into dst. Returns false on miss, disabled
// cache or decode failure.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores a value with the given TTL. Best-effort.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate removes keys, typically after a score recalculation.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "error", err)
	}
}

// Close releases the connection.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
