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

// GuildSettingsModel handles database operations for per-guild configuration.
type GuildSettingsModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildSettings creates a repository with database access for guild settings.
func NewGuildSettings(db *bun.DB, logger *zap.Logger) *GuildSettingsModel {
	return &GuildSettingsModel{
		db:     db,
		logger: logger.Named("db_guild_settings"),
	}
}

// Get retrieves the settings snapshot for a guild. A guild without a row
// gets the zero-value settings, so callers never special-case absence.
func (m *GuildSettingsModel) Get(ctx context.Context, guildID uint64) (*types.GuildSettings, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildSettings, error) {
		settings := new(types.GuildSettings)

		err := m.db.NewSelect().
			Model(settings).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &types.GuildSettings{GuildID: guildID}, nil
			}
			return nil, fmt.Errorf("failed to get guild settings: %w", err)
		}

		return settings, nil
	})
}

// Upsert stores the settings row for a guild.
func (m *GuildSettingsModel) Upsert(ctx context.Context, settings *types.GuildSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(settings).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("suggestion_channel_id = EXCLUDED.suggestion_channel_id").
			Set("rank_channel_id = EXCLUDED.rank_channel_id").
			Set("moderator_role_id = EXCLUDED.moderator_role_id").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert guild settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Saved guild settings", zap.Uint64("guildID", settings.GuildID))

	return nil
}
