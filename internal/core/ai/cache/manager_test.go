package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxSize int, ttl time.Duration) *Manager {
	return NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: ttl})
}

func TestManagerGetSet(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.Stats()
	assert.EqualValues(t, 1, stats["hits"])
	assert.EqualValues(t, 1, stats["misses"])
}

func TestManagerExpiry(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", "v"))

	now = now.Add(2 * time.Minute)
	_, err := m.Get(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))
	assert.EqualValues(t, 1, m.Stats()["evictions"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m := newTestManager(2, time.Hour)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.True(t, errors.Is(err, common.ErrCacheMiss), "b was least used and should be evicted")
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Stats()["size"])
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 1, TTL: time.Minute, CleanupInterval: time.Millisecond})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("meal", "prompt"), Key("meal", "prompt"))
	assert.NotEqual(t, Key("meal", "prompt"), Key("mealprompt"))
	assert.NotEqual(t, Key("a", "bc"), Key("ab", "c"))
}

func TestNewBackends(t *testing.T) {
	store, err := New(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory, MaxSize: 1, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Manager{}, store)
	_ = store.Close()

	_, err = New(config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)

	store, err = New(config.CacheConfig{Enabled: true, Backend: config.CacheBackendRedis, RedisAddr: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
	assert.Nil(t, store)
}
