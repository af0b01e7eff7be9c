package ranking

import (
	"fmt"
	"time"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
)

// CooldownError reports a cooldown miss together with how long the
// actor has to wait. It matches errors.Is against ErrRateLimited.
type CooldownError struct {
	Kind       enum.ActivityKind
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("rate limited: %s for another %s", e.Kind, e.RetryAfter)
}

func (e *CooldownError) Unwrap() error { return types.ErrRateLimited }

// CheckAndRecord applies the cooldown ledger to a record: if the kind is
// uncooled, or no prior grant exists, or the window has elapsed, it
// stamps now as the new last-granted time and reports true. Otherwise it
// reports false and leaves the stored stamp untouched. The stamp never
// moves backwards; an event older than the stored stamp is simply not
// credited.
//
// Atomicity per key comes from the caller: the record is a private copy
// inside a conditional write, so two concurrent events within the same
// window resolve to exactly one winner.
func CheckAndRecord(record *types.ActivityRecord, kind enum.ActivityKind, now time.Time) bool {
	duration, gated := Cooldown(kind)
	if !gated {
		return true
	}

	if last, ok := record.Cooldowns[kind]; ok && now.Sub(last) < duration {
		return false
	}

	record.Cooldowns[kind] = now.UTC()

	return true
}
