package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps each document as a string value under <prefix><name>.
type RedisBackend struct {
	redis  *redis.Client
	prefix string
}

// NewRedisBackend creates a Redis-backed document backend.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if client == nil {
		panic("store: redis client required")
	}
	return &RedisBackend{redis: client, prefix: prefix}
}

func (b *RedisBackend) key(name string) string {
	return b.prefix + name
}

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.redis.Get(ctx, b.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get %s: %w", name, err)
	}
	return data, nil
}

func (b *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := b.redis.Set(ctx, b.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", name, err)
	}
	return nil
}

func (b *RedisBackend) Exists(ctx context.Context, name string) (bool, error) {
	n, err := b.redis.Exists(ctx, b.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("store: redis exists %s: %w", name, err)
	}
	return n > 0, nil
}

var _ Backend = (*RedisBackend)(nil)
