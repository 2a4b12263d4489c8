package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStorage keeps the cart document in Redis under "cart:<key>".
// No TTL is set: the cart survives until cleared, like the original
// browser-side storage did.
type redisStorage struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisStorage creates a Redis-backed cart storage.
func NewRedisStorage(client *redis.Client, key string, logger zerolog.Logger) Storage {
	return &redisStorage{
		client: client,
		key:    fmt.Sprintf("cart:%s", key),
		logger: logger.With().Str("component", "redis-storage").Logger(),
	}
}

// Read returns the saved cart document, or (nil, nil) when the key is
// not present.
func (s *redisStorage) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Debug().Str("key", s.key).Msg("no saved cart key")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed for %s: %w", s.key, err)
	}
	return data, nil
}

// Write replaces the cart document.
func (s *redisStorage) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed for %s: %w", s.key, err)
	}

	s.logger.Debug().Str("key", s.key).Int("bytes", len(data)).Msg("cart state written")
	return nil
}
