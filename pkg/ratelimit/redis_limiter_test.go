package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flota-backend/internal/config"
	"flota-backend/pkg/redis"
)

func newTestLimiter(t *testing.T, cfg *Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(config.RedisConfig{
		Host:        mr.Host(),
		Port:        mr.Port(),
		PoolSize:    5,
		DialTimeout: time.Second,
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisLimiter(client, cfg, nil), mr
}

func TestRedisLimiterBlocksOverLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits["default"] = Limit{Requests: 3, Window: time.Minute}

	limiter, _ := newTestLimiter(t, cfg)

	for i := 0; i < 3; i++ {
		allowed, retryAfter, err := limiter.Allow("client-1", "default")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter, err := limiter.Allow("client-1", "default")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	stats := limiter.Stats()
	assert.Equal(t, int64(4), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.BlockedRequests)
}

func TestRedisLimiterIsolatesClients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits["auth_login"] = Limit{Requests: 1, Window: time.Minute}

	limiter, _ := newTestLimiter(t, cfg)

	allowed, _, err := limiter.Allow("10.0.0.1", "auth_login")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("10.0.0.1", "auth_login")
	require.NoError(t, err)
	assert.False(t, allowed, "second attempt from the same address is blocked")

	allowed, _, err = limiter.Allow("10.0.0.2", "auth_login")
	require.NoError(t, err)
	assert.True(t, allowed, "other addresses are unaffected")
}

func TestRedisLimiterIsolatesCategories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits["write"] = Limit{Requests: 1, Window: time.Minute}

	limiter, _ := newTestLimiter(t, cfg)

	allowed, _, err := limiter.Allow("client-1", "write")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("client-1", "write")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, err = limiter.Allow("client-1", "read")
	require.NoError(t, err)
	assert.True(t, allowed, "read category keeps its own counter")
}

func TestRedisLimiterDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.Limits["default"] = Limit{Requests: 1, Window: time.Minute}

	limiter, _ := newTestLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		allowed, _, err := limiter.Allow("client-1", "default")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisLimiterFallsBackWhenRedisDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits["default"] = Limit{Requests: 2, Window: time.Minute}

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(config.RedisConfig{
		Host:        mr.Host(),
		Port:        mr.Port(),
		PoolSize:    5,
		DialTimeout: time.Second,
	})
	t.Cleanup(func() { client.Close() })

	fallback := NewMemoryLimiter(cfg)
	limiter := NewRedisLimiter(client, cfg, fallback)

	mr.Close()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow("client-1", "default")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, retryAfter, err := limiter.Allow("client-1", "default")
	require.NoError(t, err)
	assert.False(t, allowed, "memory fallback still enforces the limit")
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits["default"] = Limit{Requests: 1, Window: 50 * time.Millisecond}

	limiter := NewMemoryLimiter(cfg)

	allowed, _, err := limiter.Allow("client-1", "default")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("client-1", "default")
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, _, err = limiter.Allow("client-1", "default")
	require.NoError(t, err)
	assert.True(t, allowed, "counter resets after the window elapses")
}

func TestLimitLookupFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	limiter := NewMemoryLimiter(cfg)

	assert.Equal(t, cfg.Limits["default"], limiter.Limit("nonexistent-category"))
	assert.Equal(t, cfg.Limits["auth_login"], limiter.Limit("auth_login"))
}
