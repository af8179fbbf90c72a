package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "hookbot:"

// RedisStore keeps one JSON document per collection under a namespaced
// key.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection with a
// ping.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("using redis storage", "addr", addr)
	return &RedisStore{client: client}, nil
}

func redisKey(collection string) string {
	return redisPrefix + collection
}

func (s *RedisStore) Load(ctx context.Context, collection string, out any) (bool, error) {
	data, err := s.client.Get(ctx, redisKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return true, nil
}

func (s *RedisStore) Save(ctx context.Context, collection string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}

	if err := s.client.Set(ctx, redisKey(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection string) error {
	if err := s.client.Del(ctx, redisKey(collection)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
