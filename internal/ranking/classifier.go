package ranking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
)

// RawEvent is the transport-agnostic descriptor of one platform event.
type RawEvent struct {
	Type      enum.EventType
	GuildID   uint64
	ChannelID uint64
	// ActorID is the user who produced the event: message author,
	// reactor, or command invoker.
	ActorID uint64
	// AuthorID is the author of the reacted-to message on reaction events.
	AuthorID uint64
	// TargetID is the recipient of a boost command.
	TargetID uint64
	// Command is the invoked command name on command events.
	Command     string
	Content     string
	Attachments []string
	Timestamp   time.Time
}

// Entry is one creditable activity derived from a raw event.
type Entry struct {
	GuildID   uint64
	UserID    uint64
	Kind      enum.ActivityKind
	Timestamp time.Time
}

// trickCommands are the content commands that earn trick_command credit.
var trickCommands = map[string]struct{}{
	"trick":        {},
	"tricklist":    {},
	"skatefact":    {},
	"skatehistory": {},
	"brand":        {},
	"skater":       {},
	"crew":         {},
}

// BoostCommand is the command name that grants another member a boost.
const BoostCommand = "1up"

var mediaExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4", ".mov", ".webm"}

var mediaLinkPattern = regexp.MustCompile(`(?i)https?://\S+\.(?:png|jpe?g|gif|webp|mp4|mov|webm)(?:\?\S*)?(?:\s|$)`)

// Classify maps a raw event to zero, one or two activity entries. It is
// a pure mapping with no side effects; validation failures reject the
// event before anything downstream is touched.
func Classify(event *RawEvent) ([]Entry, error) {
	switch event.Type {
	case enum.EventTypeMessage:
		kind := enum.ActivityKindChatMessage
		if hasMedia(event) {
			kind = enum.ActivityKindMediaShare
		}
		return []Entry{{event.GuildID, event.ActorID, kind, event.Timestamp}}, nil

	case enum.EventTypeReactionAdd:
		// Reacting to your own message earns nothing.
		if event.ActorID == event.AuthorID {
			return nil, nil
		}
		return []Entry{
			{event.GuildID, event.ActorID, enum.ActivityKindGiveReaction, event.Timestamp},
			{event.GuildID, event.AuthorID, enum.ActivityKindReceiveReaction, event.Timestamp},
		}, nil

	case enum.EventTypeReactionRemove:
		// Granted points are never retracted.
		return nil, nil

	case enum.EventTypeCommandInvoked:
		return classifyCommand(event)

	default:
		return nil, nil
	}
}

func classifyCommand(event *RawEvent) ([]Entry, error) {
	command := strings.ToLower(event.Command)

	if command == BoostCommand {
		if event.TargetID == event.ActorID {
			return nil, fmt.Errorf("%w: cannot boost yourself", types.ErrValidation)
		}
		return []Entry{
			{event.GuildID, event.ActorID, enum.ActivityKindGiveOneUp, event.Timestamp},
			{event.GuildID, event.TargetID, enum.ActivityKindReceiveOneUp, event.Timestamp},
		}, nil
	}

	if _, ok := trickCommands[command]; ok {
		return []Entry{{event.GuildID, event.ActorID, enum.ActivityKindTrickCommand, event.Timestamp}}, nil
	}

	return nil, nil
}

func hasMedia(event *RawEvent) bool {
	for _, name := range event.Attachments {
		lower := strings.ToLower(name)
		for _, ext := range mediaExtensions {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
	}

	return mediaLinkPattern.MatchString(event.Content)
}
