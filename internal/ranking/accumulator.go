package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"go.uber.org/zap"
)

// ActivityStore is the persistence surface the accumulator mutates
// records through. Update must apply the mutate function under an atomic
// per-key conditional write: mutate sees a private snapshot, a false
// return writes nothing, and an error return aborts with stored state
// untouched.
type ActivityStore interface {
	Update(
		ctx context.Context, guildID, userID uint64, now time.Time,
		mutate func(*types.ActivityRecord) (bool, error),
	) (*types.ActivityRecord, error)
}

// Accumulator credits classified activity entries against activity
// records: cooldown verdict, point delta, calendar bonuses, and the
// recomputed tier are committed together or not at all.
type Accumulator struct {
	store  ActivityStore
	clock  Clock
	logger *zap.Logger
}

// NewAccumulator creates an accumulator backed by the given store.
func NewAccumulator(store ActivityStore, clock Clock, logger *zap.Logger) *Accumulator {
	return &Accumulator{
		store:  store,
		clock:  clock,
		logger: logger.Named("accumulator"),
	}
}

// Result reports one applied entry.
type Result struct {
	Record        *types.ActivityRecord
	Kind          enum.ActivityKind
	PointsAwarded int64
	OldTier       int
	NewTier       int
	Bonuses       []BonusGrant
}

// TierIncreased reports whether the applied entry pushed the member into
// a higher tier.
func (r *Result) TierIncreased() bool { return r.NewTier > r.OldTier }

// Apply credits one classified entry. A cooldown miss returns
// ErrRateLimited with stored state byte-for-byte unchanged. On success
// the returned result carries the committed record.
func (a *Accumulator) Apply(ctx context.Context, entry Entry) (*Result, error) {
	eventTime := entry.Timestamp
	if eventTime.IsZero() {
		eventTime = a.clock.Now()
	}

	result := &Result{Kind: entry.Kind}

	record, err := a.store.Update(ctx, entry.GuildID, entry.UserID, eventTime,
		func(record *types.ActivityRecord) (bool, error) {
			result.OldTier = record.Tier
			result.Bonuses = nil

			if !CheckAndRecord(record, entry.Kind, eventTime) {
				duration, _ := Cooldown(entry.Kind)
				return false, &CooldownError{
					Kind:       entry.Kind,
					RetryAfter: record.Cooldowns[entry.Kind].Add(duration).Sub(eventTime),
				}
			}

			result.PointsAwarded = Points(entry.Kind)
			record.Points += result.PointsAwarded

			if entry.Kind == enum.ActivityKindChatMessage || entry.Kind == enum.ActivityKindMediaShare {
				result.Bonuses = applyBonuses(record, eventTime)
				for _, grant := range result.Bonuses {
					record.Points += grant.Points
				}
			}

			record.Tier = Resolve(record.Points)

			return true, nil
		})
	if err != nil {
		return nil, err
	}

	result.Record = record
	result.NewTier = record.Tier

	a.logger.Debug("Credited activity",
		zap.Uint64("guildID", entry.GuildID),
		zap.Uint64("userID", entry.UserID),
		zap.String("kind", entry.Kind.String()),
		zap.Int64("points", result.PointsAwarded),
		zap.Int64("total", record.Points),
		zap.Int("tier", record.Tier))

	return result, nil
}

// SetRank is the administrative override: it rewrites the member's
// points to the tier's threshold and the tier accordingly. This is an
// explicit staff action exempt from the monotonic-points rule and never
// reachable from event classification.
func (a *Accumulator) SetRank(ctx context.Context, guildID, userID uint64, tier int) (*Result, error) {
	if tier < 1 || tier > TierCount {
		return nil, fmt.Errorf("%w: tier must be between 1 and %d", types.ErrValidation, TierCount)
	}

	result := &Result{}

	record, err := a.store.Update(ctx, guildID, userID, a.clock.Now(),
		func(record *types.ActivityRecord) (bool, error) {
			result.OldTier = record.Tier
			record.Points = Threshold(tier)
			record.Tier = tier
			return true, nil
		})
	if err != nil {
		return nil, err
	}

	result.Record = record
	result.NewTier = record.Tier

	a.logger.Info("Rank set administratively",
		zap.Uint64("guildID", guildID),
		zap.Uint64("userID", userID),
		zap.Int("tier", tier))

	return result, nil
}
