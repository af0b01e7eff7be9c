package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sevenply/plybot/internal/database"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/dispatch"
	"github.com/sevenply/plybot/internal/ranking"
	"github.com/sevenply/plybot/internal/redis"
	"github.com/sevenply/plybot/internal/setup/config"
	"github.com/sevenply/plybot/internal/suggest"
)

// Bot wires the Discord gateway to the ranking pipeline and the
// suggestion workflow. Gateway listeners only translate platform events
// into domain calls; everything stateful lives behind the accumulator,
// the workflow and the dispatcher.
type Bot struct {
	db          database.Client
	client      bot.Client
	cfg         *config.BotConfig
	dispatcher  *dispatch.Dispatcher
	accumulator *ranking.Accumulator
	workflow    *suggest.Workflow
	tally       *suggest.Tally
	leaderboard *LeaderboardCache
	announcer   *Announcer
	logger      *zap.Logger

	// Collapses concurrent settings lookups for the same guild.
	settingsGroup singleflight.Group
}

// New initializes a Bot instance by creating the domain services and
// configuring the Discord client with the necessary gateway intents and
// event listeners.
func New(
	cfg *config.BotConfig,
	db database.Client,
	redisManager *redis.Manager,
	logger *zap.Logger,
) (*Bot, error) {
	tallyClient, err := redisManager.GetClient(redis.TallyDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get tally Redis client: %w", err)
	}

	cacheClient, err := redisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache Redis client: %w", err)
	}

	b := &Bot{
		db:          db,
		cfg:         cfg,
		dispatcher:  dispatch.New(cfg.DispatchWorkers, "activity", logger),
		tally:       suggest.NewTally(tallyClient, logger),
		leaderboard: NewLeaderboardCache(cacheClient, leaderboardTTL, logger),
		logger:      logger.Named("bot"),
	}

	clock := ranking.SystemClock()
	b.accumulator = ranking.NewAccumulator(db.Model().Activity(), clock, logger)
	b.workflow = suggest.NewWorkflow(db.Model().Suggestion(), b.tally, b.hasModeration, clock, logger)

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMessageReactions,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnGuildMessageCreate:            b.handleMessageCreate,
			OnGuildMessageReactionAdd:       b.handleReactionAdd,
			OnGuildMessageReactionRemove:    b.handleReactionRemove,
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
		}),
	)
	if err != nil {
		return nil, err
	}

	b.client = client
	b.announcer = NewAnnouncer(client, logger)

	return b, nil
}

// Start registers the slash commands with Discord and opens the gateway
// connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), slashCommands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close drains the dispatcher and shuts down the gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.dispatcher.Shutdown()
	b.client.Close(ctx)
}

// guildSettings loads the guild's settings snapshot, collapsing
// concurrent lookups for the same guild into one query.
func (b *Bot) guildSettings(ctx context.Context, guildID uint64) (*types.GuildSettings, error) {
	v, err, _ := b.settingsGroup.Do(strconv.FormatUint(guildID, 10), func() (any, error) {
		return b.db.Model().Settings().Get(ctx, guildID)
	})
	if err != nil {
		return nil, err
	}

	return v.(*types.GuildSettings), nil
}
