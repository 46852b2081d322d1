// Package cache provides a Redis-backed cache for read-heavy projections
// such as payment status lookups. Cache keys are derived by pure functions
// taking explicit parameters; there is no shared mutable key-builder state.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a minimal string cache with TTL semantics.
// A miss is reported as (found=false, err=nil); errors are infrastructure failures.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PaymentStatusKey derives the cache key for an order's payment-status projection.
func PaymentStatusKey(orderID string) string {
	return fmt.Sprintf("payments:status:%s", orderID)
}

// redisCache implements Cache on a Redis server.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Cache backed by the Redis server at addr.
func NewRedisCache(addr string) Cache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// noOpCache is used when caching is disabled; every lookup is a miss.
type noOpCache struct{}

// NewNoOpCache returns a Cache that stores nothing.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }

func (noOpCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }

func (noOpCache) Delete(ctx context.Context, key string) error { return nil }
