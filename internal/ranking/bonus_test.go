package ranking_test

import (
	"testing"
	"time"

	"github.com/sevenply/plybot/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func easternZone(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	return loc
}

func TestLocalDate(t *testing.T) {
	t.Parallel()

	// 03:30 UTC is still the previous evening in the reference zone.
	late := time.Date(2026, 5, 2, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-01", ranking.LocalDate(late))

	noon := time.Date(2026, 5, 2, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-05-02", ranking.LocalDate(noon))
}

func TestLocalDateAcrossDSTTransition(t *testing.T) {
	t.Parallel()

	loc := easternZone(t)

	// US DST starts 2026-03-08 at 02:00 local; the day is 23 hours long.
	beforeJump := time.Date(2026, 3, 8, 1, 59, 0, 0, loc)
	afterJump := time.Date(2026, 3, 8, 3, 1, 0, 0, loc)

	assert.Equal(t, "2026-03-08", ranking.LocalDate(beforeJump))
	assert.Equal(t, "2026-03-08", ranking.LocalDate(afterJump))

	// 06:59 UTC on fall-back day 2026-11-01 is 01:59 EST, same local day.
	fallBack := time.Date(2026, 11, 1, 6, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-11-01", ranking.LocalDate(fallBack))
}

func TestISOWeek(t *testing.T) {
	t.Parallel()

	loc := easternZone(t)

	// Monday starts a new ISO week.
	sunday := time.Date(2026, 5, 3, 12, 0, 0, 0, loc)
	monday := time.Date(2026, 5, 4, 12, 0, 0, 0, loc)

	assert.Equal(t, "2026-W18", ranking.ISOWeek(sunday))
	assert.Equal(t, "2026-W19", ranking.ISOWeek(monday))
}

func TestISOWeekYearBoundary(t *testing.T) {
	t.Parallel()

	loc := easternZone(t)

	// 2026-01-01 falls in ISO week 2026-W01; 2027-01-01 falls in the
	// final week of 2026.
	assert.Equal(t, "2026-W01", ranking.ISOWeek(time.Date(2026, 1, 1, 12, 0, 0, 0, loc)))
	assert.Equal(t, "2026-W53", ranking.ISOWeek(time.Date(2027, 1, 1, 12, 0, 0, 0, loc)))
}

func TestPeriodStringsOrderLexicographically(t *testing.T) {
	t.Parallel()

	loc := easternZone(t)

	earlier := ranking.ISOWeek(time.Date(2026, 2, 25, 12, 0, 0, 0, loc))
	later := ranking.ISOWeek(time.Date(2026, 3, 25, 12, 0, 0, 0, loc))

	// "2026-W09" < "2026-W13" only holds with zero padding.
	assert.Less(t, earlier, later)
}
