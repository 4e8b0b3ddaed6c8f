package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pathmuseum/museum/internal/session"
)

// sessionPrefix is the Redis key prefix for session records.
const sessionPrefix = "session:"

var _ session.Store = (*Cache)(nil)

func sessionKey(key string) string {
	return sessionPrefix + key
}

// Put stores a session record; Redis expires it after ttl.
func (c *Cache) Put(ctx context.Context, key string, rec session.Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Get returns the session record for key, or (nil, nil) on a miss.
// A corrupted entry is treated as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*session.Record, error) {
	data, err := c.client.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil //nolint:nilerr
	}
	return &rec, nil
}

// Delete removes the session record for key. Missing keys are ignored.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
