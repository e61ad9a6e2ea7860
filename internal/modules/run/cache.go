// README: Output cache keyed by input hash; Redis in production, no-op otherwise.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ridepool/internal/modules/simulation"
)

// CachedResult is what a completed run leaves behind for identical inputs.
type CachedResult struct {
	Output string           `json:"output"`
	Stats  simulation.Stats `json:"stats"`
}

type Cache interface {
	Get(ctx context.Context, key string) (*CachedResult, bool, error)
	Set(ctx context.Context, key string, v CachedResult) error
}

const cacheKeyPrefix = "ridepool:output:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*CachedResult, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out CachedResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, v CachedResult) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, raw, c.ttl).Err()
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*CachedResult, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, CachedResult) error          { return nil }
