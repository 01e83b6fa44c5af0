package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// BoloCache is a Redis-backed read cache for bolo records, keyed by id.
// Entries expire after the configured TTL and are dropped eagerly on writes,
// so a stale flier is bounded by the TTL even if invalidation is missed.
type BoloCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBoloCache wraps the given Redis client. A non-positive ttl falls back
// to the default.
func NewBoloCache(client *redis.Client, ttl time.Duration) *BoloCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &BoloCache{client: client, ttl: ttl}
}

// Get returns the cached bolo, or (nil, nil) on a miss.
func (c *BoloCache) Get(ctx context.Context, id string) (*domain.Bolo, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bolo cache get: %w", err)
	}

	var bolo domain.Bolo
	if err := json.Unmarshal(data, &bolo); err != nil {
		// A corrupt entry is dropped rather than surfaced.
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, nil
	}
	return &bolo, nil
}

// Set stores a bolo under its id for the cache TTL.
func (c *BoloCache) Set(ctx context.Context, bolo *domain.Bolo) error {
	data, err := json.Marshal(bolo)
	if err != nil {
		return fmt.Errorf("bolo cache set: %w", err)
	}
	if err := c.client.Set(ctx, c.key(bolo.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("bolo cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cache entry for an id.
func (c *BoloCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("bolo cache invalidate: %w", err)
	}
	return nil
}

func (c *BoloCache) key(id string) string {
	return "bolo:cache:" + id
}
