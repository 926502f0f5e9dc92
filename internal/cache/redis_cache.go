// Package cache keeps finished comparison runs in Redis keyed by the hash of
// the compared documents and the comparison options.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/port"
)

const keyPrefix = "docrecon:comparison:v1:"

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

type comparisonCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewComparisonCache wraps client. A non-positive ttl keeps entries until
// evicted.
func NewComparisonCache(client *redis.Client, ttl time.Duration) port.ComparisonCache {
	if ttl < 0 {
		ttl = 0
	}
	return &comparisonCache{client: client, ttl: ttl}
}

func (c *comparisonCache) Get(ctx context.Context, inputHash string) (*domain.ComparisonRun, error) {
	payload, err := c.client.Get(ctx, keyPrefix+inputHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("comparisonCache.Get: %w", err)
	}
	var run domain.ComparisonRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("comparisonCache.Get decode: %w", err)
	}
	if run.Alerts == nil {
		run.Alerts = []domain.Alert{}
	}
	return &run, nil
}

func (c *comparisonCache) Set(ctx context.Context, inputHash string, run *domain.ComparisonRun) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("comparisonCache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+inputHash, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("comparisonCache.Set: %w", err)
	}
	return nil
}

func (c *comparisonCache) Delete(ctx context.Context, inputHash string) error {
	if err := c.client.Del(ctx, keyPrefix+inputHash).Err(); err != nil {
		return fmt.Errorf("comparisonCache.Delete: %w", err)
	}
	return nil
}

func (c *comparisonCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
