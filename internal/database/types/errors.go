package types

import "errors"

var (
	// ErrRateLimited indicates the activity's cooldown has not elapsed.
	// It is an expected outcome, not a failure; no state was mutated.
	ErrRateLimited = errors.New("activity is still on cooldown")

	// ErrUnauthorized indicates the actor lacks the moderation capability
	// required for the attempted operation.
	ErrUnauthorized = errors.New("actor lacks moderation capability")

	// ErrInvalidState indicates a suggestion decision was attempted on a
	// record that already reached a terminal state. The prior decision is
	// left untouched.
	ErrInvalidState = errors.New("suggestion is no longer pending")

	// ErrValidation indicates malformed input: empty or oversized content,
	// or a self-targeted boost. Nothing was classified or stored.
	ErrValidation = errors.New("input failed validation")

	// ErrStorage indicates a durable write could not be committed after
	// bounded retries. The operation performed no partial mutation.
	ErrStorage = errors.New("storage operation failed")
)
