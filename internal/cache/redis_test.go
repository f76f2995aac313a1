package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg), mr
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	type stats struct{ Total int64 }

	var got stats
	hit, err := c.GetJSON(ctx, cache.KeyAdminStats, &got)
	require.NoError(t, err)
	assert.False(t, hit, "empty cache is a miss")

	require.NoError(t, c.SetJSON(ctx, cache.KeyAdminStats, stats{Total: 9}, time.Minute))
	hit, err = c.GetJSON(ctx, cache.KeyAdminStats, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(9), got.Total)

	mr.FastForward(2 * time.Minute)
	hit, err = c.GetJSON(ctx, cache.KeyAdminStats, &got)
	require.NoError(t, err)
	assert.False(t, hit, "entry expires after its TTL")
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.Set(ctx, cache.KeyAdminStats, "{not json", time.Minute))

	var v map[string]any
	_, err := c.GetJSON(ctx, cache.KeyAdminStats, &v)
	assert.Error(t, err)

	require.NoError(t, c.Del(ctx, cache.KeyAdminStats))
	_, err = c.Get(ctx, cache.KeyAdminStats)
	assert.Error(t, err)
}
