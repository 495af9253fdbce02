package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/farm-weather/internal/weather"
)

// RedisStore keeps readings in Redis so several processes can share one cache.
// Expiry is left to Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client. The caller closes it.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (weather.Reading, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return weather.Reading{}, false, nil
	}
	if err != nil {
		return weather.Reading{}, false, err
	}

	var r weather.Reading
	if err := json.Unmarshal(b, &r); err != nil {
		return weather.Reading{}, false, fmt.Errorf("decode cached reading %s: %w", key, err)
	}
	return r, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, r weather.Reading, ttl time.Duration) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// Sweep is a no-op; Redis evicts expired keys itself.
func (s *RedisStore) Sweep(_ context.Context) int {
	return 0
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
