package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sevenply/plybot/internal/database/dbretry"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var (
	// ErrSuggestionNotFound is returned when no record exists for the key.
	ErrSuggestionNotFound = errors.New("suggestion not found")
	// ErrSuggestionExists is returned when a suggestion id is reused.
	ErrSuggestionExists = errors.New("suggestion already exists")
)

// SuggestionModel handles database operations for suggestion records.
type SuggestionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSuggestion creates a repository with database access for suggestions.
func NewSuggestion(db *bun.DB, logger *zap.Logger) *SuggestionModel {
	return &SuggestionModel{
		db:     db,
		logger: logger.Named("db_suggestion"),
	}
}

// Create stores a new pending suggestion.
func (m *SuggestionModel) Create(ctx context.Context, suggestion *types.Suggestion) error {
	suggestion.Version = 1

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := m.db.NewInsert().
			Model(suggestion).
			On("CONFLICT (guild_id, id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create suggestion: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if rows == 0 {
			return ErrSuggestionExists
		}

		return nil
	})
}

// Get retrieves a suggestion by key.
func (m *SuggestionModel) Get(ctx context.Context, guildID, id uint64) (*types.Suggestion, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Suggestion, error) {
		suggestion := new(types.Suggestion)

		err := m.db.NewSelect().
			Model(suggestion).
			Where("guild_id = ?", guildID).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrSuggestionNotFound
			}
			return nil, fmt.Errorf("failed to get suggestion: %w", err)
		}

		return suggestion, nil
	})
}

// Transition applies apply to the suggestion under an atomic conditional
// write guarded by the record version. apply sees a private copy; errors
// from apply abort the transition with stored state untouched. A lost
// version race reloads and re-applies, bounded by casAttempts.
func (m *SuggestionModel) Transition(
	ctx context.Context, guildID, id uint64,
	apply func(*types.Suggestion) error,
) (*types.Suggestion, error) {
	for attempt := range casAttempts {
		current, err := m.Get(ctx, guildID, id)
		if err != nil {
			if errors.Is(err, ErrSuggestionNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", types.ErrStorage, err)
		}

		next := *current
		if err := apply(&next); err != nil {
			return nil, err
		}

		next.Version = current.Version + 1

		committed, err := dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
			res, err := m.db.NewUpdate().
				Model(&next).
				WherePK().
				Where("version = ?", current.Version).
				Exec(ctx)
			if err != nil {
				return false, fmt.Errorf("failed to commit suggestion transition: %w", err)
			}

			rows, err := res.RowsAffected()
			if err != nil {
				return false, fmt.Errorf("failed to read affected rows: %w", err)
			}

			return rows == 1, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrStorage, err)
		}
		if committed {
			return &next, nil
		}

		m.logger.Debug("Suggestion version conflict, retrying",
			zap.Uint64("guildID", guildID),
			zap.Uint64("suggestionID", id),
			zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("%w: suggestion transition lost %d version races", types.ErrStorage, casAttempts)
}
