package ranking

import (
	"fmt"
	"time"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
)

// referenceZone is the fixed timezone that defines calendar days and
// weeks for bonus purposes, honoring daylight-saving transitions.
var referenceZone = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(fmt.Sprintf("failed to load reference timezone: %v", err))
	}
	return loc
}()

// BonusGrant is one calendar bonus credited alongside a chat activity.
type BonusGrant struct {
	Kind   enum.ActivityKind
	Points int64
}

// LocalDate formats the instant as its calendar date in the reference
// timezone. Zero-padded so lexicographic order equals calendar order.
func LocalDate(t time.Time) string {
	return t.In(referenceZone).Format("2006-01-02")
}

// ISOWeek formats the instant as its ISO week in the reference timezone,
// e.g. "2026-W05". Zero-padded so lexicographic order equals week order.
func ISOWeek(t time.Time) string {
	year, week := t.In(referenceZone).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// applyBonuses grants the daily and weekly bonuses the record is owed
// for an allowed chat-class event at the given instant, advancing the
// stored period markers. A period equal to or earlier than the stored
// marker grants nothing, which guards against clock skew and
// out-of-order delivery re-granting a bonus.
func applyBonuses(record *types.ActivityRecord, now time.Time) []BonusGrant {
	var grants []BonusGrant

	if date := LocalDate(now); date > record.LastDailyBonus {
		record.LastDailyBonus = date
		grants = append(grants, BonusGrant{
			Kind:   enum.ActivityKindDailyBonus,
			Points: Points(enum.ActivityKindDailyBonus),
		})
	}

	if week := ISOWeek(now); week > record.LastWeeklyBonus {
		record.LastWeeklyBonus = week
		grants = append(grants, BonusGrant{
			Kind:   enum.ActivityKindWeeklyBonus,
			Points: Points(enum.ActivityKindWeeklyBonus),
		})
	}

	return grants
}
