package types

import (
	"time"

	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Suggestion is one community suggestion inside a guild. The record is
// mutable only while Pending; a decision freezes the vote tally, decider
// and timestamp together with the terminal status in one conditional
// write, after which the record never changes again.
type Suggestion struct {
	bun.BaseModel `bun:"table:suggestions"`

	GuildID uint64 `bun:",pk,notnull" json:"guildId"`
	ID      uint64 `bun:",pk,notnull" json:"id"`

	AuthorID uint64                `bun:",notnull" json:"authorId"`
	Content  string                `bun:",notnull" json:"content"`
	Status   enum.SuggestionStatus `bun:",notnull" json:"status"`

	// Discussion thread on the platform, if one was created.
	ThreadID uint64 `bun:",nullzero" json:"threadId"`

	// Tally frozen at decision time; zero while Pending.
	ApproveCount int `bun:",nullzero" json:"approveCount"`
	DenyCount    int `bun:",nullzero" json:"denyCount"`

	DeciderID uint64     `bun:",nullzero" json:"deciderId"`
	DecidedAt *time.Time `bun:",nullzero" json:"decidedAt"`

	Version   int64     `bun:",notnull" json:"-"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
