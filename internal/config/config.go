package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Environment  string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string        `env:"LOG_FILE"`                                // Empty discards console logs
	DataDir      string        `env:"DATA_DIR" envDefault:"data"`              // Story and question content
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"sqlite"`       // memory, redis or sqlite
	RedisURL     string        `env:"REDIS_URL" envDefault:"localhost:6379"`   // host:port or redis:// URL
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"storyweaver.db"` // File for the sqlite store
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`           // 0 keeps sessions forever
	HistoryLimit int           `env:"HISTORY_LIMIT" envDefault:"12"`           // Entries shown in the view
	RandomSeed   int64         `env:"RANDOM_SEED"`                             // 0 seeds from the clock
	SessionID    string        `env:"SESSION_ID"`                              // Resume a specific session

	LogLevel slog.Level `env:"-"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	switch cfg.StoreBackend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", cfg.HistoryLimit)
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
