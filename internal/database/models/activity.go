package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sevenply/plybot/internal/database/dbretry"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// casAttempts bounds how often a conditional write is retried after
// losing a version race before the operation surfaces ErrStorage.
const casAttempts = 5

// ActivityModel handles database operations for per-member activity records.
type ActivityModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewActivity creates a repository with database access for activity records.
func NewActivity(db *bun.DB, logger *zap.Logger) *ActivityModel {
	return &ActivityModel{
		db:     db,
		logger: logger.Named("db_activity"),
	}
}

// Get retrieves the activity record for a member, or nil if none exists yet.
func (m *ActivityModel) Get(ctx context.Context, guildID, userID uint64) (*types.ActivityRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ActivityRecord, error) {
		record := new(types.ActivityRecord)

		err := m.db.NewSelect().
			Model(record).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get activity record: %w", err)
		}

		return record, nil
	})
}

// Update applies mutate to the member's record under an atomic conditional
// write. The mutate function receives a private copy seeded with a zero
// record on first contact; returning false means "no change" and nothing
// is written. A lost version race reloads and re-applies mutate, bounded
// by casAttempts; exhaustion surfaces ErrStorage. Errors returned by
// mutate abort the operation with stored state untouched.
func (m *ActivityModel) Update(
	ctx context.Context, guildID, userID uint64, now time.Time,
	mutate func(*types.ActivityRecord) (bool, error),
) (*types.ActivityRecord, error) {
	for attempt := range casAttempts {
		current, err := m.Get(ctx, guildID, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrStorage, err)
		}

		fresh := current == nil
		if fresh {
			current = types.NewActivityRecord(guildID, userID, now)
		}

		next := current.Clone()

		changed, err := mutate(next)
		if err != nil {
			return nil, err
		}
		if !changed {
			return next, nil
		}

		next.UpdatedAt = now

		committed, err := m.commit(ctx, next, fresh, current.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrStorage, err)
		}
		if committed {
			return next, nil
		}

		m.logger.Debug("Activity record version conflict, retrying",
			zap.Uint64("guildID", guildID),
			zap.Uint64("userID", userID),
			zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("%w: activity record update lost %d version races", types.ErrStorage, casAttempts)
}

// commit writes the mutated record, guarded by the version observed at
// read time. Returns false when another writer won the race.
func (m *ActivityModel) commit(
	ctx context.Context, record *types.ActivityRecord, fresh bool, readVersion int64,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		var (
			res sql.Result
			err error
		)

		if fresh {
			record.Version = 1
			res, err = m.db.NewInsert().
				Model(record).
				On("CONFLICT (guild_id, user_id) DO NOTHING").
				Exec(ctx)
		} else {
			record.Version = readVersion + 1
			res, err = m.db.NewUpdate().
				Model(record).
				WherePK().
				Where("version = ?", readVersion).
				Exec(ctx)
		}
		if err != nil {
			return false, fmt.Errorf("failed to commit activity record: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read affected rows: %w", err)
		}

		return rows == 1, nil
	})
}

// TopByPoints returns the highest-scoring records in a guild for the
// leaderboard, ordered by points descending.
func (m *ActivityModel) TopByPoints(ctx context.Context, guildID uint64, limit int) ([]*types.ActivityRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ActivityRecord, error) {
		var records []*types.ActivityRecord

		err := m.db.NewSelect().
			Model(&records).
			Where("guild_id = ?", guildID).
			OrderExpr("points DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get leaderboard: %w", err)
		}

		return records, nil
	})
}
