package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/sevenply/plybot/internal/database/models"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/ranking"
)

// slashCommands declares the global command set registered on startup.
func slashCommands() []discord.ApplicationCommandCreate {
	commands := []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "rank",
			Description: "Show a member's rank and points",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to look up (defaults to you)",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "leaderboard",
			Description: "Show the top members by points",
		},
		discord.SlashCommandCreate{
			Name:        "ranks",
			Description: "List all ranks and their point thresholds",
		},
		discord.SlashCommandCreate{
			Name:        ranking.BoostCommand,
			Description: "Boost another member",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to boost",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "setrank",
			Description: "Set a member's rank (staff only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Member to update",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "tier",
					Description: fmt.Sprintf("Rank tier between 1 and %d", ranking.TierCount),
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "settings",
			Description: "Configure the bot for this server (staff only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "suggestion_channel",
					Description: "Channel where messages become suggestions",
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "rank_channel",
					Description: "Channel for rank-up and bonus announcements",
				},
				discord.ApplicationCommandOptionRole{
					Name:        "moderator_role",
					Description: "Role allowed to decide suggestions",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "approve",
			Description: "Approve a suggestion (staff only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "suggestion",
					Description: "Suggestion message ID",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "deny",
			Description: "Deny a suggestion (staff only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "suggestion",
					Description: "Suggestion message ID",
					Required:    true,
				},
			},
		},
	}

	for name, description := range contentCommandDescriptions {
		commands = append(commands, discord.SlashCommandCreate{
			Name:        name,
			Description: description,
		})
	}

	return commands
}

// handleApplicationCommandInteraction dispatches slash commands. Each
// command runs in its own goroutine with panic recovery so one bad
// interaction cannot take down the gateway reader.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		name := event.SlashCommandInteractionData().CommandName()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler", zap.Any("panic", r), zap.String("command", name))
				b.respondError(event, "Internal error. Please report this to an administrator.")
			}

			b.logger.Debug("Command handled",
				zap.String("command", name),
				zap.Duration("duration", time.Since(start)))
		}()

		if event.GuildID() == nil {
			b.respondError(event, "Commands only work inside a server.")
			return
		}

		ctx := context.Background()

		switch name {
		case "rank":
			b.handleRank(ctx, event)
		case "leaderboard":
			b.handleLeaderboard(ctx, event)
		case "ranks":
			b.handleRanks(event)
		case ranking.BoostCommand:
			b.handleBoost(ctx, event)
		case "setrank":
			b.handleSetRank(ctx, event)
		case "settings":
			b.handleSettings(ctx, event)
		case "approve":
			b.handleDecision(ctx, event, true)
		case "deny":
			b.handleDecision(ctx, event, false)
		default:
			if _, ok := contentCommandDescriptions[name]; ok {
				b.handleContentCommand(ctx, event, name)
				return
			}

			b.respondError(event, "This command is not available.")
		}
	}()
}

func (b *Bot) handleRank(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	target, ok := event.SlashCommandInteractionData().OptUser("user")
	if !ok {
		target = event.User()
	}

	guildID := uint64(*event.GuildID())

	record, err := b.db.Model().Activity().Get(ctx, guildID, uint64(target.ID))
	if err != nil {
		b.logger.Error("Failed to load activity record", zap.Error(err), zap.Uint64("userID", uint64(target.ID)))
		b.respondError(event, "Failed to look up that member.")

		return
	}

	var points int64

	tier := 1
	if record != nil {
		points = record.Points
		tier = record.Tier
	}

	progress := "Top rank reached"
	if next, ok := ranking.NextThreshold(tier); ok {
		progress = fmt.Sprintf("%d / %d points to **%s**", points, next, ranking.TierName(tier+1))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(ranking.TierName(tier)).
		SetDescription(fmt.Sprintf("<@%d> has **%d** points.\n%s", target.ID, points, progress)).
		SetColor(embedColorNeutral).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
}

func (b *Bot) handleLeaderboard(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	guildID := uint64(*event.GuildID())

	rendered, ok := b.leaderboard.Get(ctx, guildID)
	if !ok {
		records, err := b.db.Model().Activity().TopByPoints(ctx, guildID, b.cfg.LeaderboardSize)
		if err != nil {
			b.logger.Error("Failed to load leaderboard", zap.Error(err), zap.Uint64("guildID", guildID))
			b.respondError(event, "Failed to load the leaderboard.")

			return
		}

		if len(records) == 0 {
			b.respondError(event, "Nobody has earned points yet.")
			return
		}

		var sb strings.Builder
		for i, record := range records {
			fmt.Fprintf(&sb, "%d. <@%d> — **%d** points (%s)\n",
				i+1, record.UserID, record.Points, ranking.TierName(record.Tier))
		}

		rendered = sb.String()
		b.leaderboard.Put(ctx, guildID, rendered)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Leaderboard").
		SetDescription(rendered).
		SetColor(embedColorNeutral).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
}

func (b *Bot) handleRanks(event *events.ApplicationCommandInteractionCreate) {
	var sb strings.Builder
	for tier := 1; tier <= ranking.TierCount; tier++ {
		fmt.Fprintf(&sb, "**%s** — %d points\n", ranking.TierName(tier), ranking.Threshold(tier))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Ranks").
		SetDescription(sb.String()).
		SetColor(embedColorNeutral).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
}

func (b *Bot) handleBoost(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	target := event.SlashCommandInteractionData().User("user")

	settings, err := b.guildSettings(ctx, uint64(*event.GuildID()))
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err))
		b.respondError(event, "Failed to process the boost.")

		return
	}

	raw := &ranking.RawEvent{
		Type:      enum.EventTypeCommandInvoked,
		GuildID:   uint64(*event.GuildID()),
		ChannelID: uint64(event.Channel().ID()),
		ActorID:   uint64(event.User().ID),
		TargetID:  uint64(target.ID),
		Command:   ranking.BoostCommand,
	}

	entries, err := ranking.Classify(raw)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			b.respondError(event, "You cannot boost yourself.")
			return
		}

		b.respondError(event, "Failed to process the boost.")

		return
	}

	if err := b.applyBoost(ctx, settings, entries); err != nil {
		var cooldown *ranking.CooldownError
		if errors.As(err, &cooldown) {
			b.respondError(event, fmt.Sprintf(
				"You can give another 1up in %d minute(s).", retryMinutes(cooldown.RetryAfter)))

			return
		}

		b.logger.Error("Failed to apply boost", zap.Error(err), zap.Uint64("targetID", uint64(target.ID)))
		b.respondError(event, "Failed to process the boost.")

		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("1UP!").
		SetDescription(fmt.Sprintf("<@%d> boosted <@%d>!", event.User().ID, target.ID)).
		SetColor(embedColorSuccess).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
}

// applyBoost credits a classified giver/receiver pair through the
// dispatcher and waits for the outcome. The giver entry is applied
// first; if the giver is still on cooldown the whole boost is aborted
// and the receiver is not credited.
func (b *Bot) applyBoost(ctx context.Context, settings *types.GuildSettings, entries []ranking.Entry) error {
	give := entries[0]
	outcome := make(chan error, 1)

	key := fmt.Sprintf("%d:%d", give.GuildID, give.UserID)

	err := b.dispatcher.Submit(ctx, key, func(ctx context.Context) error {
		giveResult, err := b.accumulator.Apply(ctx, give)
		if err != nil {
			outcome <- err
			if errors.Is(err, types.ErrRateLimited) {
				return nil
			}

			return err
		}

		b.announcer.AnnounceProgress(settings, giveResult)

		receiveResult, err := b.accumulator.Apply(ctx, entries[1])
		if err != nil {
			outcome <- err
			return err
		}

		b.announcer.AnnounceProgress(settings, receiveResult)
		outcome <- nil

		return nil
	})
	if err != nil {
		return err
	}

	return <-outcome
}

func retryMinutes(d time.Duration) int {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

func (b *Bot) handleContentCommand(ctx context.Context, event *events.ApplicationCommandInteractionCreate, name string) {
	settings, err := b.guildSettings(ctx, uint64(*event.GuildID()))
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err))
		b.respondError(event, "Something went wrong.")

		return
	}

	b.submitActivity(ctx, settings, &ranking.RawEvent{
		Type:      enum.EventTypeCommandInvoked,
		GuildID:   uint64(*event.GuildID()),
		ChannelID: uint64(event.Channel().ID()),
		ActorID:   uint64(event.User().ID),
		Command:   name,
	})

	b.respond(event, discord.NewMessageCreateBuilder().SetContent(contentFor(name)).Build())
}

func (b *Bot) handleSetRank(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !b.hasModeration(ctx, uint64(*event.GuildID()), uint64(event.User().ID)) {
		b.respondError(event, "Only moderators can set ranks.")
		return
	}

	data := event.SlashCommandInteractionData()
	target := data.User("user")
	tier := data.Int("tier")
	guildID := uint64(*event.GuildID())

	result, err := b.accumulator.SetRank(ctx, guildID, uint64(target.ID), tier)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			b.respondError(event, fmt.Sprintf("Tier must be between 1 and %d.", ranking.TierCount))
			return
		}

		b.logger.Error("Failed to set rank", zap.Error(err), zap.Uint64("userID", uint64(target.ID)))
		b.respondError(event, "Failed to set the rank.")

		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Rank updated").
		SetDescription(fmt.Sprintf("<@%d> is now **%s** with %d points.",
			target.ID, ranking.TierName(result.NewTier), result.Record.Points)).
		SetColor(embedColorSuccess).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
}

func (b *Bot) handleSettings(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if !memberHasPermission(event, discord.PermissionManageGuild) {
		b.respondError(event, "You need the Manage Server permission to change settings.")
		return
	}

	guildID := uint64(*event.GuildID())

	settings, err := b.guildSettings(ctx, guildID)
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err))
		b.respondError(event, "Failed to load the settings.")

		return
	}

	updated := *settings
	data := event.SlashCommandInteractionData()

	if channel, ok := data.OptChannel("suggestion_channel"); ok {
		updated.SuggestionChannelID = uint64(channel.ID)
	}

	if channel, ok := data.OptChannel("rank_channel"); ok {
		updated.RankChannelID = uint64(channel.ID)
	}

	if role, ok := data.OptRole("moderator_role"); ok {
		updated.ModeratorRoleID = uint64(role.ID)
	}

	if err := b.db.Model().Settings().Upsert(ctx, &updated); err != nil {
		b.logger.Error("Failed to save guild settings", zap.Error(err), zap.Uint64("guildID", guildID))
		b.respondError(event, "Failed to save the settings.")

		return
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Settings").
		AddField("Suggestion channel", channelMention(updated.SuggestionChannelID), true).
		AddField("Rank channel", channelMention(updated.RankChannelID), true).
		AddField("Moderator role", roleMention(updated.ModeratorRoleID), true).
		SetColor(embedColorNeutral).
		Build()

	b.respond(event, discord.NewMessageCreateBuilder().SetEmbeds(embed).SetEphemeral(true).Build())
}

func channelMention(id uint64) string {
	if id == 0 {
		return "not set"
	}

	return fmt.Sprintf("<#%d>", id)
}

func roleMention(id uint64) string {
	if id == 0 {
		return "not set"
	}

	return fmt.Sprintf("<@&%d>", id)
}

func (b *Bot) handleDecision(ctx context.Context, event *events.ApplicationCommandInteractionCreate, approve bool) {
	raw := event.SlashCommandInteractionData().String("suggestion")

	suggestionID, err := snowflake.Parse(raw)
	if err != nil {
		b.respondError(event, "That does not look like a message ID.")
		return
	}

	guildID := uint64(*event.GuildID())

	decision, err := b.workflow.Decide(ctx, guildID, uint64(suggestionID), uint64(event.User().ID), approve)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUnauthorized):
			b.respondError(event, "You do not have permission to decide suggestions.")
		case errors.Is(err, types.ErrInvalidState):
			b.respondError(event, "That suggestion has already been decided.")
		case errors.Is(err, models.ErrSuggestionNotFound):
			b.respondError(event, "No suggestion with that ID exists.")
		default:
			b.logger.Error("Failed to decide suggestion", zap.Error(err), zap.Uint64("suggestionID", uint64(suggestionID)))
			b.respondError(event, "Failed to decide the suggestion.")
		}

		return
	}

	settings, err := b.guildSettings(ctx, guildID)
	if err != nil {
		b.logger.Error("Failed to load guild settings", zap.Error(err))
	} else {
		b.announcer.AnnounceDecision(settings, decision)
	}

	b.respond(event, discord.NewMessageCreateBuilder().
		SetContentf("Suggestion %d %s.", suggestionID, decision.Suggestion.Status).
		SetEphemeral(true).
		Build())
}

func (b *Bot) respond(event *events.ApplicationCommandInteractionCreate, message discord.MessageCreate) {
	if err := event.CreateMessage(message); err != nil {
		b.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

func (b *Bot) respondError(event *events.ApplicationCommandInteractionCreate, content string) {
	b.respond(event, discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
}

func memberHasPermission(event *events.ApplicationCommandInteractionCreate, permission discord.Permissions) bool {
	member := event.Member()
	if member == nil {
		return false
	}

	return member.Permissions.Has(discord.PermissionAdministrator) || member.Permissions.Has(permission)
}
