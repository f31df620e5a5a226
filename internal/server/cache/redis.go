package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server, shared across instances.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("cache error: %w", err)
	}
	return b, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache error: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
