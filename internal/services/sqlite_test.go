package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSQLite(t *testing.T) *SQLiteService {
	t.Helper()
	s, err := NewSQLiteService(filepath.Join(t.TempDir(), "store.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteService_Basic(t *testing.T) {
	s := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.WaitForConnection(ctx))
	require.NoError(t, s.Set(ctx, "a", "1", 0))
	require.NoError(t, s.Set(ctx, "a", "2", 0))
	require.NoError(t, s.Set(ctx, "b", "3", 0))

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v, "set overwrites")

	ok, err := s.Exists(ctx, "missing", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Del(ctx, "a", "b"))
	ok, err = s.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSQLiteService_Expiration(t *testing.T) {
	s := setupTestSQLite(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	v, _ := s.Get(ctx, "k")
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSQLiteService_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	s, err := NewSQLiteService(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "session:1:current_node", "gate", 0))
	require.NoError(t, s.Close())

	s, err = NewSQLiteService(path, nil)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "session:1:current_node")
	require.NoError(t, err)
	assert.Equal(t, "gate", v)
}

func TestNewSQLiteService_RequiresPath(t *testing.T) {
	_, err := NewSQLiteService("  ", nil)
	assert.Error(t, err)
}

func TestMemoryCache_Expiration(t *testing.T) {
	m := NewMemoryCache()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Second))
	require.NoError(t, m.Set(ctx, "forever", "v", 0))
	now = now.Add(time.Second)

	v, _ := m.Get(ctx, "k")
	assert.Empty(t, v)
	v, _ = m.Get(ctx, "forever")
	assert.Equal(t, "v", v)
}

func TestMockCache_HooksAndTracking(t *testing.T) {
	m := NewMockCache()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	assert.Equal(t, "v", m.Value("k"))
	require.Len(t, m.SetCalls, 1)
	assert.Equal(t, SetCall{Key: "k", Value: "v", Expiration: time.Minute}, m.SetCalls[0])

	m.SetGetError(assert.AnError)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"k"}, m.GetCalls)

	m.Reset()
	assert.Empty(t, m.SetCalls)
	assert.Empty(t, m.GetCalls)
}
