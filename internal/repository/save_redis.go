package repository

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// RedisSaveRepository keeps each snapshot under a single key
type RedisSaveRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisSaveRepository(client *redis.Client, prefix string) *RedisSaveRepository {
	return &RedisSaveRepository{client: client, prefix: prefix}
}

func (r *RedisSaveRepository) key(playerID string) string {
	return r.prefix + playerID
}

func (r *RedisSaveRepository) Load(ctx context.Context, playerID string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get save %s: %w", playerID, err)
	}
	return data, nil
}

func (r *RedisSaveRepository) Save(ctx context.Context, playerID string, data []byte) error {
	if err := r.client.Set(ctx, r.key(playerID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set save %s: %w", playerID, err)
	}
	return nil
}

func (r *RedisSaveRepository) Delete(ctx context.Context, playerID string) error {
	return r.client.Del(ctx, r.key(playerID)).Err()
}

func (r *RedisSaveRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSaveRepository) Name() string { return "redis" }
