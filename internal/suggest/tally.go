package suggest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Tally tracks live approve/deny votes per suggestion in Redis. Votes
// live outside the suggestion record until a decision freezes them; a
// voter counts at most once per side, and removing a reaction removes
// the vote again.
type Tally struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewTally creates a vote tally backed by the given Redis client.
func NewTally(client rueidis.Client, logger *zap.Logger) *Tally {
	return &Tally{
		client: client,
		logger: logger.Named("tally"),
	}
}

func voteKey(guildID, suggestionID uint64, approve bool) string {
	side := "deny"
	if approve {
		side = "approve"
	}
	return fmt.Sprintf("suggestion_votes:%d:%d:%s", guildID, suggestionID, side)
}

// Vote records a voter on one side. Adding the same voter twice is a
// no-op, so rapid reaction toggling cannot inflate the count.
func (t *Tally) Vote(ctx context.Context, guildID, suggestionID, voterID uint64, approve bool) error {
	key := voteKey(guildID, suggestionID, approve)
	member := strconv.FormatUint(voterID, 10)

	err := t.client.Do(ctx, t.client.B().Sadd().Key(key).Member(member).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}

	return nil
}

// Retract removes a voter from one side, if present.
func (t *Tally) Retract(ctx context.Context, guildID, suggestionID, voterID uint64, approve bool) error {
	key := voteKey(guildID, suggestionID, approve)
	member := strconv.FormatUint(voterID, 10)

	err := t.client.Do(ctx, t.client.B().Srem().Key(key).Member(member).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to retract vote: %w", err)
	}

	return nil
}

// Count reads the current live tally.
func (t *Tally) Count(ctx context.Context, guildID, suggestionID uint64) (int, int, error) {
	results := t.client.DoMulti(ctx,
		t.client.B().Scard().Key(voteKey(guildID, suggestionID, true)).Build(),
		t.client.B().Scard().Key(voteKey(guildID, suggestionID, false)).Build(),
	)

	approve, err := results[0].AsInt64()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count approve votes: %w", err)
	}

	deny, err := results[1].AsInt64()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count deny votes: %w", err)
	}

	return int(approve), int(deny), nil
}

// Clear drops the live tally after a decision froze its counts.
func (t *Tally) Clear(ctx context.Context, guildID, suggestionID uint64) {
	err := t.client.Do(ctx, t.client.B().Del().
		Key(voteKey(guildID, suggestionID, true)).
		Key(voteKey(guildID, suggestionID, false)).
		Build()).Error()
	if err != nil {
		t.logger.Warn("Failed to clear vote tally",
			zap.Uint64("guildID", guildID),
			zap.Uint64("suggestionID", suggestionID),
			zap.Error(err))
	}
}
