package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
)`

// SQLiteService implements the Cache interface on a single SQLite table.
// Expired rows read as missing and are removed lazily.
type SQLiteService struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Ensure SQLiteService implements Cache interface
var _ Cache = (*SQLiteService)(nil)

// NewSQLiteService opens (creating if needed) the database at path. logger may be nil.
func NewSQLiteService(path string, logger *slog.Logger) (*SQLiteService, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteService{db: db, logger: orDiscard(logger), now: time.Now}, nil
}

func (s *SQLiteService) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteService) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	var expiresAt int64
	if expiration > 0 {
		expiresAt = s.now().Add(expiration).UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt)
	if err != nil {
		s.logger.Error("SQLite SET failed", "key", key, "error", err)
		return fmt.Errorf("sqlite set failed: %w", err)
	}

	s.logger.Debug("SQLite SET successful", "key", key, "value_length", len(value))
	return nil
}

func (s *SQLiteService) Get(ctx context.Context, key string) (string, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `SELECT value, expires_at FROM kv WHERE key = ?`, key).Scan(&value, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("SQLite key not found", "key", key)
			return "", nil
		}
		s.logger.Error("SQLite GET failed", "key", key, "error", err)
		return "", fmt.Errorf("sqlite get failed: %w", err)
	}

	if s.expired(expiresAt) {
		s.logger.Debug("SQLite key expired", "key", key)
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
			s.logger.Warn("Failed to purge expired key", "key", key, "error", err)
		}
		return "", nil
	}
	return value, nil
}

func (s *SQLiteService) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM kv WHERE key IN (` + placeholders(len(keys)) + `)`
	res, err := s.db.ExecContext(ctx, query, toArgs(keys)...)
	if err != nil {
		s.logger.Error("SQLite DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("sqlite del failed: %w", err)
	}

	deleted, _ := res.RowsAffected()
	s.logger.Debug("SQLite DEL successful", "keys", keys, "deleted_count", deleted)
	return nil
}

func (s *SQLiteService) Exists(ctx context.Context, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	query := `SELECT COUNT(*) FROM kv WHERE key IN (` + placeholders(len(keys)) + `) AND (expires_at = 0 OR expires_at > ?)`
	args := append(toArgs(keys), s.now().UnixMilli())

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		s.logger.Error("SQLite EXISTS failed", "keys", keys, "error", err)
		return false, fmt.Errorf("sqlite exists failed: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WaitForConnection pings once; a local database file is either usable or not.
func (s *SQLiteService) WaitForConnection(ctx context.Context) error {
	return s.Ping(ctx)
}

func (s *SQLiteService) expired(expiresAt int64) bool {
	return expiresAt > 0 && expiresAt <= s.now().UnixMilli()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(keys []string) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
