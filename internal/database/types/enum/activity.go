package enum

// ActivityKind represents a creditable community activity.
type ActivityKind int

const (
	ActivityKindChatMessage ActivityKind = iota
	ActivityKindMediaShare
	ActivityKindGiveReaction
	ActivityKindReceiveReaction
	ActivityKindTrickCommand
	ActivityKindGiveOneUp
	ActivityKindReceiveOneUp
	ActivityKindDailyBonus
	ActivityKindWeeklyBonus
)

var activityKindNames = map[ActivityKind]string{
	ActivityKindChatMessage:     "chat_message",
	ActivityKindMediaShare:      "media_share",
	ActivityKindGiveReaction:    "give_reaction",
	ActivityKindReceiveReaction: "receive_reaction",
	ActivityKindTrickCommand:    "trick_command",
	ActivityKindGiveOneUp:       "give_1up",
	ActivityKindReceiveOneUp:    "receive_1up",
	ActivityKindDailyBonus:      "daily_bonus",
	ActivityKindWeeklyBonus:     "weekly_bonus",
}

// String returns the wire name of the activity kind.
func (k ActivityKind) String() string {
	if name, ok := activityKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so the kind can be used
// as a JSON object key in the stored cooldown map.
func (k ActivityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActivityKind) UnmarshalText(text []byte) error {
	for kind, name := range activityKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	*k = ActivityKindChatMessage
	return nil
}

// EventType represents the type of a raw platform event.
type EventType int

const (
	EventTypeMessage EventType = iota
	EventTypeReactionAdd
	EventTypeReactionRemove
	EventTypeCommandInvoked
)

// String returns the wire name of the event type.
func (t EventType) String() string {
	switch t {
	case EventTypeMessage:
		return "message"
	case EventTypeReactionAdd:
		return "reaction_add"
	case EventTypeReactionRemove:
		return "reaction_remove"
	case EventTypeCommandInvoked:
		return "command_invoked"
	default:
		return "unknown"
	}
}
