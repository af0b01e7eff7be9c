package database

import (
	"github.com/sevenply/plybot/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	activity   *models.ActivityModel
	suggestion *models.SuggestionModel
	settings   *models.GuildSettingsModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		activity:   models.NewActivity(db, logger),
		suggestion: models.NewSuggestion(db, logger),
		settings:   models.NewGuildSettings(db, logger),
	}
}

// Activity returns the activity record model repository.
func (r *Repository) Activity() *models.ActivityModel {
	return r.activity
}

// Suggestion returns the suggestion model repository.
func (r *Repository) Suggestion() *models.SuggestionModel {
	return r.suggestion
}

// Settings returns the guild settings model repository.
func (r *Repository) Settings() *models.GuildSettingsModel {
	return r.settings
}
