package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// leaderboardTTL bounds how stale a cached leaderboard can get.
const leaderboardTTL = time.Minute

// LeaderboardCache keeps rendered leaderboards in Redis for a short
// window so a busy guild does not hit Postgres on every /leaderboard.
type LeaderboardCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLeaderboardCache creates a leaderboard cache with the given TTL.
func NewLeaderboardCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("leaderboard_cache"),
	}
}

func leaderboardKey(guildID uint64) string {
	return fmt.Sprintf("leaderboard:%d", guildID)
}

// Get returns the cached rendering for a guild, or false on a miss.
// Redis errors count as misses.
func (c *LeaderboardCache) Get(ctx context.Context, guildID uint64) (string, bool) {
	rendered, err := c.client.Do(ctx, c.client.B().Get().Key(leaderboardKey(guildID)).Build()).ToString()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to read cached leaderboard",
				zap.Error(err),
				zap.Uint64("guildID", guildID))
		}

		return "", false
	}

	return rendered, true
}

// Put stores a rendering for a guild until the TTL expires.
func (c *LeaderboardCache) Put(ctx context.Context, guildID uint64, rendered string) {
	err := c.client.Do(ctx, c.client.B().Set().
		Key(leaderboardKey(guildID)).
		Value(rendered).
		Ex(c.ttl).
		Build()).Error()
	if err != nil {
		c.logger.Warn("Failed to cache leaderboard",
			zap.Error(err),
			zap.Uint64("guildID", guildID))
	}
}
