package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/storyweaver/internal/config"
)

// Open connects the cache backend selected by cfg.StoreBackend and waits for
// it to become available.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Cache, error) {
	var (
		cache Cache
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		cache = NewMemoryCache()
	case config.BackendRedis:
		cache, err = NewRedisService(cfg.RedisURL, logger)
	case config.BackendSQLite:
		cache, err = NewSQLiteService(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}

	if err := cache.WaitForConnection(ctx); err != nil {
		_ = cache.Close()
		return nil, fmt.Errorf("%s store unavailable: %w", cfg.StoreBackend, err)
	}
	return cache, nil
}
