package bot

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/ranking"
	"github.com/sevenply/plybot/internal/suggest"
)

const (
	embedColorNeutral = 0x5865F2
	embedColorSuccess = 0x57F287
	embedColorFailure = 0xED4245
)

// Announcer posts rank and suggestion embeds to the configured guild
// channels. Announcement failures are logged and swallowed; credit has
// already been committed by the time anything is announced.
type Announcer struct {
	client bot.Client
	logger *zap.Logger
}

// NewAnnouncer creates an announcer.
func NewAnnouncer(client bot.Client, logger *zap.Logger) *Announcer {
	return &Announcer{
		client: client,
		logger: logger.Named("announcer"),
	}
}

// AnnounceProgress posts a rank-channel embed when an applied entry
// raised the member's tier or granted calendar bonuses. Guilds without
// a rank channel get no announcements.
func (a *Announcer) AnnounceProgress(settings *types.GuildSettings, result *ranking.Result) {
	if settings.RankChannelID == 0 {
		return
	}

	if !result.TierIncreased() && len(result.Bonuses) == 0 {
		return
	}

	var sb strings.Builder

	if result.TierIncreased() {
		fmt.Fprintf(&sb, "<@%d> reached **%s**!\n", result.Record.UserID, ranking.TierName(result.NewTier))
	}

	for _, bonus := range result.Bonuses {
		label := "Daily bonus"
		if bonus.Kind == enum.ActivityKindWeeklyBonus {
			label = "Weekly bonus"
		}

		fmt.Fprintf(&sb, "%s: <@%d> earned **+%d** points.\n", label, result.Record.UserID, bonus.Points)
	}

	title := "Bonus"
	if result.TierIncreased() {
		title = "Rank up!"
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(sb.String()).
		SetColor(embedColorSuccess).
		Build()

	a.post(settings.RankChannelID, embed)
}

// AnnounceDecision posts the decision embed to the suggestion channel
// and locks the discussion thread.
func (a *Announcer) AnnounceDecision(settings *types.GuildSettings, decision *suggest.Decision) {
	suggestion := decision.Suggestion

	if settings.SuggestionChannelID != 0 {
		color := embedColorFailure
		if suggestion.Status == enum.SuggestionStatusApproved {
			color = embedColorSuccess
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("Suggestion %s", suggestion.Status)).
			SetDescription(suggestion.Content).
			AddField("Votes", fmt.Sprintf("%s %d / %s %d",
				approveEmoji, suggestion.ApproveCount, denyEmoji, suggestion.DenyCount), true).
			AddField("Decided by", fmt.Sprintf("<@%d>", suggestion.DeciderID), true).
			SetColor(color).
			Build()

		a.post(settings.SuggestionChannelID, embed)
	}

	if decision.LockThread != 0 {
		a.lockThread(decision.LockThread)
	}
}

func (a *Announcer) post(channelID uint64, embed discord.Embed) {
	_, err := a.client.Rest().CreateMessage(snowflake.ID(channelID),
		discord.NewMessageCreateBuilder().SetEmbeds(embed).Build())
	if err != nil {
		a.logger.Warn("Failed to post announcement", zap.Error(err), zap.Uint64("channelID", channelID))
	}
}

func (a *Announcer) lockThread(threadID uint64) {
	locked := true
	archived := true

	_, err := a.client.Rest().UpdateChannel(snowflake.ID(threadID), discord.GuildThreadUpdate{
		Locked:   &locked,
		Archived: &archived,
	})
	if err != nil {
		a.logger.Warn("Failed to lock suggestion thread", zap.Error(err), zap.Uint64("threadID", threadID))
	}
}
