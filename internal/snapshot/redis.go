package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

const DefaultRedisKey = "barbersaas:snapshot"

type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(url, key string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBackend{client: redis.NewClient(opts), key: key}, nil
}

func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func (r *RedisBackend) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return Decode(data)
}

func (r *RedisBackend) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
