package ranking

import (
	"time"

	"github.com/sevenply/plybot/internal/database/types/enum"
)

// pointValues is the fixed point table per activity kind.
var pointValues = map[enum.ActivityKind]int64{
	enum.ActivityKindChatMessage:     1,
	enum.ActivityKindGiveReaction:    2,
	enum.ActivityKindReceiveReaction: 3,
	enum.ActivityKindTrickCommand:    5,
	enum.ActivityKindMediaShare:      20,
	enum.ActivityKindGiveOneUp:       5,
	enum.ActivityKindReceiveOneUp:    25,
	enum.ActivityKindDailyBonus:      10,
	enum.ActivityKindWeeklyBonus:     25,
}

// cooldownDurations gates actor-controlled kinds. Passively granted
// kinds (receive_*) and bonuses carry no cooldown.
var cooldownDurations = map[enum.ActivityKind]time.Duration{
	enum.ActivityKindChatMessage:  60 * time.Second,
	enum.ActivityKindGiveReaction: 30 * time.Second,
	enum.ActivityKindTrickCommand: 300 * time.Second,
	enum.ActivityKindMediaShare:   600 * time.Second,
	enum.ActivityKindGiveOneUp:    1800 * time.Second,
}

// Points returns the point delta for an activity kind.
func Points(kind enum.ActivityKind) int64 {
	return pointValues[kind]
}

// Cooldown returns the cooldown duration for a kind and whether the kind
// is cooldown-gated at all.
func Cooldown(kind enum.ActivityKind) (time.Duration, bool) {
	d, ok := cooldownDurations[kind]
	return d, ok
}
