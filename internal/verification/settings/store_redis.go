package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisSettingsKeyPrefix = "settings:"

// RedisStore persists verification settings in Redis so the admin UI and the
// verification core share one live configuration source.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed settings store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value for key, or ErrNotFound on a missing key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, redisSettingsKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value for key with no expiry; settings live until changed.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisSettingsKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisSettingsKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
