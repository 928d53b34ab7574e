package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService implements the Cache interface using Redis
type RedisService struct {
	client     *redis.Client
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// Ensure RedisService implements Cache interface
var _ Cache = (*RedisService)(nil)

// NewRedisService creates a new Redis service. redisURL is either host:port
// or a redis:// URL. logger may be nil.
func NewRedisService(redisURL string, logger *slog.Logger) (*RedisService, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}
	return NewRedisServiceFromClient(redis.NewClient(opts), logger), nil
}

// NewRedisServiceFromClient wraps an existing client.
func NewRedisServiceFromClient(client *redis.Client, logger *slog.Logger) *RedisService {
	return &RedisService{
		client:     client,
		logger:     orDiscard(logger),
		maxRetries: 30,
		retryDelay: 2 * time.Second,
	}
}

func (r *RedisService) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisService) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", key, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Redis SET successful", "key", key, "value_length", len(value))
	return nil
}

func (r *RedisService) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Redis key not found", "key", key)
			return "", nil // Return empty string for not found, not an error
		}
		r.logger.Error("Redis GET failed", "key", key, "error", err)
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	r.logger.Debug("Redis GET successful", "key", key, "value_length", len(value))
	return value, nil
}

func (r *RedisService) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Redis DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("redis del failed: %w", err)
	}

	r.logger.Debug("Redis DEL successful", "keys", keys, "deleted_count", deleted)
	return nil
}

func (r *RedisService) Exists(ctx context.Context, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	n, err := r.client.Exists(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Redis EXISTS failed", "keys", keys, "error", err)
		return false, fmt.Errorf("redis exists failed: %w", err)
	}

	r.logger.Debug("Redis EXISTS check", "keys", keys, "exists", n > 0)
	return n > 0, nil
}

func (r *RedisService) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisService) WaitForConnection(ctx context.Context) error {
	for i := 0; i < r.maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(r.retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", r.maxRetries)
}
