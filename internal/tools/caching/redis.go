package caching

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	redis redis.Cmdable
}

func (c *redisCache) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.redis.SetEx(ctx, key, value, ttl).Err()
}

func (c *redisCache) StoreIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, value, ttl).Result()
}

func (c *redisCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	value, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}

func (c *redisCache) Touch(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := c.redis.Expire(ctx, key, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrMiss
	}

	return nil
}
