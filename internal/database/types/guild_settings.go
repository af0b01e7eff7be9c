package types

import (
	"time"

	"github.com/uptrace/bun"
)

// GuildSettings is the per-guild configuration row. Callers fetch a
// snapshot per request and treat it as immutable; there is no shared
// settings cache.
type GuildSettings struct {
	bun.BaseModel `bun:"table:guild_settings"`

	GuildID uint64 `bun:",pk,notnull" json:"guildId"`

	// Channel where plain messages become suggestions.
	SuggestionChannelID uint64 `bun:",nullzero" json:"suggestionChannelId"`
	// Channel where tier-up and bonus announcements are posted.
	RankChannelID uint64 `bun:",nullzero" json:"rankChannelId"`
	// Role granting the moderation capability in addition to the
	// platform's own manage-messages permission.
	ModeratorRoleID uint64 `bun:",nullzero" json:"moderatorRoleId"`

	UpdatedAt time.Time `bun:",notnull" json:"updatedAt"`
}
