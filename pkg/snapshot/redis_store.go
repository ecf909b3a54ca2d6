package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the latest snapshot blob under a single key. Push
// overwrites the key, so retries are harmless.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		// Tolerate a bare host:port the way the rest of the config does.
		opt = &redis.Options{Addr: url}
	}
	return &RedisStore{rdb: redis.NewClient(opt), key: key}, nil
}

func (s *RedisStore) Push(ctx context.Context, blob []byte) error {
	if err := s.rdb.Set(ctx, s.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("failed to push snapshot to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Pull(ctx context.Context) ([]byte, error) {
	blob, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pull snapshot from redis: %w", err)
	}
	return blob, nil
}

// Ping checks connectivity so startup can warn early about an unreachable
// backend without treating it as fatal.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
