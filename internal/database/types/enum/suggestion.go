package enum

// SuggestionStatus represents the lifecycle state of a suggestion.
// Pending is the only non-terminal state.
type SuggestionStatus int

const (
	SuggestionStatusPending SuggestionStatus = iota
	SuggestionStatusApproved
	SuggestionStatusDenied
)

// String returns the wire name of the status.
func (s SuggestionStatus) String() string {
	switch s {
	case SuggestionStatusPending:
		return "pending"
	case SuggestionStatusApproved:
		return "approved"
	case SuggestionStatusDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s SuggestionStatus) Terminal() bool {
	return s == SuggestionStatusApproved || s == SuggestionStatusDenied
}
