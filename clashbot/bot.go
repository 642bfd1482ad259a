package clashbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/cardclash/bot/clashbot/logger"
	"github.com/cardclash/bot/internal/catalog"
	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/game"
	"github.com/cardclash/bot/internal/gateways/database"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	DB        *database.DB
	Catalog   *catalog.Catalog
	Cards     cards.Service
	Game      *game.Service
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("CardClash bot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("/battle"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}

	if b.DB != nil {
		if err := b.DB.Ping(ctx); err != nil {
			logger.LogError("Database health check failed", err)
			return
		}
		logger.LogSystem("Database health check passed")
	}
}

// RunGenerations calls the generation poller every tick until ctx ends.
func (b *Bot) RunGenerations(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, tick)
			n, err := b.Game.RunDueGenerations(runCtx)
			cancel()
			if err != nil {
				logger.LogError("Generation tick failed", err, slog.Int("generated", n))
				continue
			}
			if n > 0 {
				logger.LogSystem("Generation tick", slog.Int("generated", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
