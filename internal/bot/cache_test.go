package bot_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/sevenply/plybot/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupLeaderboardCache(t *testing.T, ttl time.Duration) (*bot.LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return bot.NewLeaderboardCache(client, ttl, zap.NewNop()), mr
}

func TestLeaderboardCacheMissThenHit(t *testing.T) {
	t.Parallel()

	cache, _ := setupLeaderboardCache(t, time.Minute)
	ctx := t.Context()

	_, ok := cache.Get(ctx, 1)
	require.False(t, ok)

	cache.Put(ctx, 1, "1. <@10> — **36** points")

	rendered, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "1. <@10> — **36** points", rendered)
}

func TestLeaderboardCacheExpires(t *testing.T) {
	t.Parallel()

	cache, mr := setupLeaderboardCache(t, time.Minute)
	ctx := t.Context()

	cache.Put(ctx, 1, "rendered")

	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)
}

func TestLeaderboardCacheGuildsIndependent(t *testing.T) {
	t.Parallel()

	cache, _ := setupLeaderboardCache(t, time.Minute)
	ctx := t.Context()

	cache.Put(ctx, 1, "guild one")
	cache.Put(ctx, 2, "guild two")

	rendered, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "guild one", rendered)

	_, ok = cache.Get(ctx, 3)
	assert.False(t, ok)
}
