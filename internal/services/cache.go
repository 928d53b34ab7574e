package services

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the string key-value store every session and content payload goes
// through. Get returns "" with a nil error for missing or expired keys.
type Cache interface {
	// Ping tests the cache connection
	Ping(ctx context.Context) error

	// Set stores a value with optional expiration (0 = no expiry)
	Set(ctx context.Context, key, value string, expiration time.Duration) error

	// Get retrieves a value by key
	Get(ctx context.Context, key string) (string, error)

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) error

	// Exists reports whether any of the keys exist
	Exists(ctx context.Context, keys ...string) (bool, error)

	// Close closes the cache connection
	Close() error

	// WaitForConnection waits for cache to be available with retries
	WaitForConnection(ctx context.Context) error
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
