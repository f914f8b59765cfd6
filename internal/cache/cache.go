package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"socialapp/internal/middleware"
	"socialapp/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache wraps an optional Redis client. A Cache with a nil client is a
// pass-through: reads miss and writes are dropped.
type Cache struct {
	client *redis.Client
}

// New returns a Cache backed by client, which may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client returns the underlying Redis client, or nil.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c.Client() != nil
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on a miss it calls fetch, which must populate dest,
// then stores dest with ttl. Cache failures degrade to calling fetch.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	case c.Enabled():
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate deletes keys, logging but not returning failures.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

// InvalidateUsers drops cached user records.
func (c *Cache) InvalidateUsers(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserKey(id))
	}
	c.Invalidate(ctx, keys...)
}

// Revoke marks a token id as revoked until ttl elapses.
func (c *Cache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !c.Enabled() {
		return errors.New("token revocation requires redis")
	}
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, RevokedKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token id was revoked.
func (c *Cache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !c.Enabled() || jti == "" {
		return false, nil
	}
	n, err := c.client.Exists(ctx, RevokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
