package cookies

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/logger"
)

const defaultRedisTimeout = 2 * time.Second

// RedisStore reads cookies shared between processes from Redis. Keys are
// prefix+name.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, timeout: defaultRedisTimeout}
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(name string) string {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+name).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("failed to read cookie from redis", zap.String("cookie", name), zap.Error(err))
		}
		return ""
	}
	return val
}

// Set stores a cookie with an optional ttl (0 keeps it forever).
func (s *RedisStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+name, value, ttl).Err()
}

// Delete removes a cookie.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.prefix+name).Err()
}
