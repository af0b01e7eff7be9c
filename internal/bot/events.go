package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"go.uber.org/zap"

	"github.com/sevenply/plybot/internal/database/models"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/ranking"
	"github.com/sevenply/plybot/internal/suggest"
)

const (
	approveEmoji = "✅"
	denyEmoji    = "❌"
)

// handleMessageCreate routes guild messages: suggestion-channel messages
// enter the suggestion workflow, everything else is classified for
// activity credit.
func (b *Bot) handleMessageCreate(e *events.GuildMessageCreate) {
	msg := e.Message
	if msg.Author.Bot || msg.Author.System {
		return
	}

	ctx := context.Background()

	settings, err := b.guildSettings(ctx, uint64(e.GuildID))
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err), zap.Uint64("guildID", uint64(e.GuildID)))
		return
	}

	if settings.SuggestionChannelID != 0 && uint64(e.ChannelID) == settings.SuggestionChannelID {
		b.handleSuggestionMessage(ctx, e)
		return
	}

	attachments := make([]string, 0, len(msg.Attachments))
	for _, attachment := range msg.Attachments {
		attachments = append(attachments, attachment.Filename)
	}

	b.submitActivity(ctx, settings, &ranking.RawEvent{
		Type:        enum.EventTypeMessage,
		GuildID:     uint64(e.GuildID),
		ChannelID:   uint64(e.ChannelID),
		ActorID:     uint64(msg.Author.ID),
		Content:     msg.Content,
		Attachments: attachments,
		Timestamp:   msg.CreatedAt,
	})
}

// handleSuggestionMessage turns a suggestion-channel message into a
// pending suggestion: discussion thread, vote reactions, stored record.
// Content is validated up front so rejected messages get no thread or
// seeded reactions.
func (b *Bot) handleSuggestionMessage(ctx context.Context, e *events.GuildMessageCreate) {
	msg := e.Message

	clean, err := suggest.SanitizeContent(msg.Content)
	if err != nil {
		b.logger.Debug("Rejected suggestion content", zap.Error(err), zap.Uint64("authorID", uint64(msg.Author.ID)))
		return
	}

	var threadID uint64

	thread, err := b.client.Rest().CreateThreadFromMessage(e.ChannelID, e.MessageID, discord.ThreadCreateFromMessage{
		Name: threadName(clean),
	})
	if err != nil {
		b.logger.Warn("Failed to create suggestion thread", zap.Error(err), zap.Uint64("messageID", uint64(e.MessageID)))
	} else {
		threadID = uint64(thread.ID())
	}

	for _, emoji := range []string{approveEmoji, denyEmoji} {
		if err := b.client.Rest().AddReaction(e.ChannelID, e.MessageID, emoji); err != nil {
			b.logger.Warn("Failed to seed vote reaction", zap.Error(err), zap.String("emoji", emoji))
		}
	}

	_, err = b.workflow.Submit(ctx, uint64(e.GuildID), uint64(e.MessageID), uint64(msg.Author.ID), threadID, clean)
	if err != nil {
		b.logger.Error("Failed to store suggestion", zap.Error(err), zap.Uint64("messageID", uint64(e.MessageID)))
	}
}

// handleReactionAdd records suggestion votes and credits reaction
// activity for both the reactor and the reacted-to author.
func (b *Bot) handleReactionAdd(e *events.GuildMessageReactionAdd) {
	if e.Member.User.Bot {
		return
	}

	ctx := context.Background()

	settings, err := b.guildSettings(ctx, uint64(e.GuildID))
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err), zap.Uint64("guildID", uint64(e.GuildID)))
		return
	}

	if settings.SuggestionChannelID != 0 && uint64(e.ChannelID) == settings.SuggestionChannelID {
		if approve, ok := voteSide(e.Emoji); ok {
			b.recordVote(ctx, uint64(e.GuildID), uint64(e.MessageID), uint64(e.UserID), approve, true)
		}

		return
	}

	msg, err := b.client.Rest().GetMessage(e.ChannelID, e.MessageID)
	if err != nil {
		b.logger.Warn("Failed to fetch reacted-to message", zap.Error(err), zap.Uint64("messageID", uint64(e.MessageID)))
		return
	}

	if msg.Author.Bot {
		return
	}

	b.submitActivity(ctx, settings, &ranking.RawEvent{
		Type:      enum.EventTypeReactionAdd,
		GuildID:   uint64(e.GuildID),
		ChannelID: uint64(e.ChannelID),
		ActorID:   uint64(e.UserID),
		AuthorID:  uint64(msg.Author.ID),
	})
}

// handleReactionRemove retracts suggestion votes. Removed reactions
// never claw back activity credit.
func (b *Bot) handleReactionRemove(e *events.GuildMessageReactionRemove) {
	ctx := context.Background()

	settings, err := b.guildSettings(ctx, uint64(e.GuildID))
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err), zap.Uint64("guildID", uint64(e.GuildID)))
		return
	}

	if settings.SuggestionChannelID == 0 || uint64(e.ChannelID) != settings.SuggestionChannelID {
		return
	}

	if approve, ok := voteSide(e.Emoji); ok {
		b.recordVote(ctx, uint64(e.GuildID), uint64(e.MessageID), uint64(e.UserID), approve, false)
	}
}

// recordVote applies or retracts one vote after confirming the message
// is a live suggestion. Votes on decided suggestions are ignored; the
// decision already froze the tally.
func (b *Bot) recordVote(ctx context.Context, guildID, suggestionID, voterID uint64, approve, add bool) {
	suggestion, err := b.db.Model().Suggestion().Get(ctx, guildID, suggestionID)
	if err != nil {
		if !errors.Is(err, models.ErrSuggestionNotFound) {
			b.logger.Error("Failed to load suggestion for vote", zap.Error(err), zap.Uint64("suggestionID", suggestionID))
		}

		return
	}

	if suggestion.Status.Terminal() {
		return
	}

	if add {
		err = b.tally.Vote(ctx, guildID, suggestionID, voterID, approve)
	} else {
		err = b.tally.Retract(ctx, guildID, suggestionID, voterID, approve)
	}

	if err != nil {
		b.logger.Error("Failed to record vote",
			zap.Error(err),
			zap.Uint64("suggestionID", suggestionID),
			zap.Uint64("voterID", voterID),
			zap.Bool("add", add))
	}
}

// submitActivity classifies one raw event and hands each resulting entry
// to the dispatcher keyed by member, preserving per-member ordering.
// Cooldown rejections are expected traffic, not task failures.
func (b *Bot) submitActivity(ctx context.Context, settings *types.GuildSettings, raw *ranking.RawEvent) {
	entries, err := ranking.Classify(raw)
	if err != nil {
		b.logger.Debug("Rejected event", zap.Error(err), zap.Uint64("actorID", raw.ActorID))
		return
	}

	for _, entry := range entries {
		key := fmt.Sprintf("%d:%d", entry.GuildID, entry.UserID)

		err := b.dispatcher.Submit(ctx, key, func(ctx context.Context) error {
			result, err := b.accumulator.Apply(ctx, entry)
			if err != nil {
				if errors.Is(err, types.ErrRateLimited) {
					return nil
				}

				return err
			}

			b.announcer.AnnounceProgress(settings, result)

			return nil
		})
		if err != nil {
			b.logger.Error("Failed to dispatch activity entry", zap.Error(err), zap.String("key", key))
		}
	}
}

// voteSide maps a reaction emoji to a tally side.
func voteSide(emoji discord.PartialEmoji) (approve, ok bool) {
	if emoji.Name == nil {
		return false, false
	}

	switch *emoji.Name {
	case approveEmoji:
		return true, true
	case denyEmoji:
		return false, true
	}

	return false, false
}

// threadName derives a thread title from the suggestion content.
func threadName(content string) string {
	runes := []rune(content)
	if len(runes) == 0 {
		return "Suggestion"
	}

	if len(runes) > 80 {
		runes = runes[:80]
	}

	return string(runes)
}
