package services

import (
	"context"
	"time"
)

// MockCache is a Cache for tests. Calls are recorded, and any Func hook
// overrides the default behaviour of an in-memory store.
type MockCache struct {
	PingFunc   func(ctx context.Context) error
	SetFunc    func(ctx context.Context, key, value string, expiration time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	DelFunc    func(ctx context.Context, keys ...string) error
	ExistsFunc func(ctx context.Context, keys ...string) (bool, error)
	CloseFunc  func() error

	// Track calls for testing
	SetCalls   []SetCall
	GetCalls   []string
	DelCalls   [][]string
	CloseCalls int

	store *MemoryCache
}

type SetCall struct {
	Key        string
	Value      string
	Expiration time.Duration
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{store: NewMemoryCache()}
}

// Seed stores values directly, bypassing call tracking and hooks.
func (m *MockCache) Seed(values map[string]string) {
	for k, v := range values {
		_ = m.store.Set(context.Background(), k, v, 0)
	}
}

// Value returns what the backing store holds for key.
func (m *MockCache) Value(key string) string {
	v, _ := m.store.Get(context.Background(), key)
	return v
}

func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return m.store.Set(ctx, key, value, expiration)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.GetCalls = append(m.GetCalls, key)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.store.Get(ctx, key)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.DelCalls = append(m.DelCalls, keys)
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return m.store.Del(ctx, keys...)
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, keys...)
	}
	return m.store.Exists(ctx, keys...)
}

func (m *MockCache) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockCache) WaitForConnection(ctx context.Context) error {
	return m.Ping(ctx)
}

// Reset clears all call tracking
func (m *MockCache) Reset() {
	m.SetCalls = nil
	m.GetCalls = nil
	m.DelCalls = nil
	m.CloseCalls = 0
}

// SetGetError makes every Get fail with err.
func (m *MockCache) SetGetError(err error) {
	m.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", err
	}
}

// SetSetError makes every Set fail with err.
func (m *MockCache) SetSetError(err error) {
	m.SetFunc = func(ctx context.Context, key, value string, expiration time.Duration) error {
		return err
	}
}
