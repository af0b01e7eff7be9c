package types

import (
	"time"

	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ActivityRecord accumulates a member's reputation inside one guild.
//
// Points only ever grow and Tier is always the pure function of Points;
// both are committed together with the cooldown stamp and bonus markers
// in a single conditional write. Version implements the optimistic
// concurrency check for that write.
type ActivityRecord struct {
	bun.BaseModel `bun:"table:activity_records"`

	GuildID uint64 `bun:",pk,notnull"        json:"guildId"`
	UserID  uint64 `bun:",pk,notnull"        json:"userId"`
	Points  int64  `bun:",notnull"           json:"points"`
	Tier    int    `bun:",notnull,default:1" json:"tier"`

	// Last credited instant per activity kind, UTC.
	Cooldowns map[enum.ActivityKind]time.Time `bun:"type:jsonb,notnull" json:"cooldowns"`

	// Local calendar date ("2006-01-02") of the last daily bonus and the
	// ISO week ("2006-W02") of the last weekly bonus, both in the fixed
	// reference timezone. Zero-padded so string comparison is ordering.
	LastDailyBonus  string `bun:",nullzero" json:"lastDailyBonus"`
	LastWeeklyBonus string `bun:",nullzero" json:"lastWeeklyBonus"`

	Version   int64     `bun:",notnull" json:"-"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:",notnull" json:"updatedAt"`
}

// NewActivityRecord returns the zero-value record for a key, created on
// the first qualifying event.
func NewActivityRecord(guildID, userID uint64, now time.Time) *ActivityRecord {
	return &ActivityRecord{
		GuildID:   guildID,
		UserID:    userID,
		Tier:      1,
		Cooldowns: make(map[enum.ActivityKind]time.Time),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so a mutate function can be re-applied to a
// fresh snapshot on a version conflict.
func (r *ActivityRecord) Clone() *ActivityRecord {
	cp := *r
	cp.Cooldowns = make(map[enum.ActivityKind]time.Time, len(r.Cooldowns))
	for k, v := range r.Cooldowns {
		cp.Cooldowns[k] = v
	}
	return &cp
}
