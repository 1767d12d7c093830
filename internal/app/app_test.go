package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreschagin/support-dashboard/internal/infrastructure/cache/memory"
	rediscache "github.com/dreschagin/support-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/support-dashboard/pkg/config"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

func baseConfig() *config.Config {
	return &config.Config{
		Atera: config.AteraConfig{
			APIKey:         "key",
			BaseURL:        "http://127.0.0.1:1/api/v3",
			RequestTimeout: time.Second,
		},
		Monthly: config.MonthlyConfig{
			FixturePath:         "fixtures/monthly-review.sample.json",
			CacheTTL:            time.Hour,
			BillableConcurrency: 2,
		},
		Cache: config.CacheConfig{Backend: config.CacheBackendMemory},
		AWS:   config.AWSConfig{Region: "us-east-1"},
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(context.Background(), baseConfig(), logger.NewWithFormat("error", "text", io.Discard))
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.IsType(t, &memory.Cache{}, a.Cache)
	assert.Nil(t, a.Events)
	assert.Nil(t, a.Gauges)
	assert.NotNil(t, a.Dashboard)
	assert.NotNil(t, a.Monthly)
	assert.False(t, a.Dashboard.UsesFixture())
}

func TestNew_RedisBackend(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.Cache = config.CacheConfig{
		Backend:   config.CacheBackendRedis,
		RedisHost: server.Host(),
		RedisPort: server.Port(),
	}

	a, err := New(context.Background(), cfg, logger.NewWithFormat("error", "text", io.Discard))
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.IsType(t, &rediscache.RedisCache{}, a.Cache)
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache = config.CacheConfig{Backend: config.CacheBackendRedis, RedisHost: "127.0.0.1", RedisPort: "1"}

	_, err := New(context.Background(), cfg, logger.NewWithFormat("error", "text", io.Discard))
	assert.Error(t, err)
}

func TestUsesObjectStorage(t *testing.T) {
	assert.True(t, usesObjectStorage("", "s3://fixtures/monthly.json"))
	assert.False(t, usesObjectStorage("fixtures/dashboard.json", ""))
}
