package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/application/port"
)

type cachedReport struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	cache := NewRedisCacheFromClient(client, "test:", 0)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, server
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "monthly-review:2025-01", cachedReport{Label: "January 2025", Count: 3}, time.Hour))

	var got cachedReport
	require.NoError(t, cache.Get(ctx, "monthly-review:2025-01", &got))
	assert.Equal(t, cachedReport{Label: "January 2025", Count: 3}, got)
	assert.True(t, server.Exists("test:monthly-review:2025-01"))
	assert.Equal(t, time.Hour, server.TTL("test:monthly-review:2025-01"))
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	cache, server := newTestCache(t)
	ctx := context.Background()

	var got cachedReport
	assert.ErrorIs(t, cache.Get(ctx, "absent", &got), port.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "tickets:open", cachedReport{Count: 1}, 0))
	assert.Equal(t, DefaultTTL, server.TTL("test:tickets:open"))

	server.FastForward(DefaultTTL + time.Second)
	assert.ErrorIs(t, cache.Get(ctx, "tickets:open", &got), port.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", cachedReport{Count: 1}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	var got cachedReport
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), port.ErrCacheMiss)
}
