package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type RedisViewCache struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisViewCache(client *redis.Client, cacheTTL time.Duration) *RedisViewCache {
	return &RedisViewCache{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (c *RedisViewCache) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	data, err := c.client.HGet(ctx, c.viewKey(path), variant).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get view: %w", err)
	}
	return data, true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, path, variant string, body []byte) error {
	key := c.viewKey(path)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, variant, body)
	if c.cacheTTL > 0 {
		pipe.Expire(ctx, key, c.cacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}

func (c *RedisViewCache) Revalidate(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, c.viewKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to revalidate %s: %w", path, err)
	}
	return nil
}

func (c *RedisViewCache) viewKey(path string) string {
	return fmt.Sprintf("view:%s", path)
}
