package migrations

import (
	"context"
	"fmt"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.ActivityRecord)(nil),
			(*types.Suggestion)(nil),
			(*types.GuildSettings)(nil),
		}

		for _, model := range models {
			if _, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		// Leaderboard reads sort by points inside one guild.
		if _, err := db.NewCreateIndex().
			Model((*types.ActivityRecord)(nil)).
			Index("idx_activity_records_guild_points").
			IfNotExists().
			Column("guild_id").
			ColumnExpr("points DESC").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create leaderboard index: %w", err)
		}

		if _, err := db.NewCreateIndex().
			Model((*types.Suggestion)(nil)).
			Index("idx_suggestions_guild_status").
			IfNotExists().
			Column("guild_id", "status").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create suggestion status index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, table := range []string{"activity_records", "suggestions", "guild_settings"} {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS ?", bun.Ident(table)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil
	})
}
