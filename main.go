package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/cardclash/bot/clashbot"
	"github.com/cardclash/bot/clashbot/commands"
	"github.com/cardclash/bot/clashbot/handlers"
	"github.com/cardclash/bot/clashbot/logger"
	"github.com/cardclash/bot/internal/catalog"
	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/events"
	"github.com/cardclash/bot/internal/domain/subscription"
	"github.com/cardclash/bot/internal/game"
	"github.com/cardclash/bot/internal/gateways/database"
	"github.com/cardclash/bot/internal/gateways/database/repositories"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, slog.LevelInfo)))

	cfg, err := clashbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.New(os.Stdout, logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})))
	slog.Info("Starting CardClash bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		slog.Error("Failed to load card catalog", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Card catalog loaded",
		slog.Int("templates", cat.Len()),
		slog.Int("factions", len(cat.Factions())))

	gameSvc, cardRepo, err := buildGame(cfg, db, cat)
	if err != nil {
		slog.Error("Failed to build game services", slog.Any("error", err))
		os.Exit(-1)
	}

	b := clashbot.New(*cfg, version, commit)
	b.DB = db
	b.Catalog = cat
	b.Cards = cards.NewService(cardRepo)
	b.Game = gameSvc

	h := handler.New()

	// System commands
	h.Command("/version", commands.VersionHandler(b))
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))

	// Collection
	h.Command("/cards", handlers.WrapWithLogging("cards", commands.CardsHandler(b)))
	h.Command("/lock", handlers.WrapWithLogging("lock", commands.LockHandler(b)))
	h.Command("/search", handlers.WrapWithLogging("search", commands.SearchHandler(b)))
	h.Autocomplete("/search", commands.SearchAutocomplete(b))

	// Workshop
	h.Command("/fuse", handlers.WrapWithLogging("fuse", commands.FuseHandler(b)))
	h.Command("/enhance", handlers.WrapWithLogging("enhance", commands.EnhanceHandler(b)))
	h.Command("/train", handlers.WrapWithLogging("train", commands.TrainHandler(b)))

	// Battles
	h.Command("/battle", handlers.WrapWithLogging("battle", commands.BattleHandler(b)))

	// Subscriptions
	h.Command("/subscribe", handlers.WrapWithLogging("subscribe", commands.SubscribeHandler(b)))
	h.Command("/unsubscribe", handlers.WrapWithLogging("unsubscribe", commands.UnsubscribeHandler(b)))
	h.Command("/tier", handlers.WrapWithLogging("tier", commands.TierHandler(b)))
	h.Command("/slots", handlers.WrapWithLogging("slots", commands.SlotsHandler(b)))
	h.Command("/slot", handlers.WrapWithLogging("slot", commands.SlotHandler(b)))
	for _, name := range []string{"/subscribe", "/unsubscribe", "/tier", "/slot"} {
		h.Autocomplete(name, commands.FactionAutocomplete(b))
	}

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	genCtx, genCancel := context.WithCancel(context.Background())
	defer genCancel()
	go b.RunGenerations(genCtx, cfg.Game.GenerationTick.Duration)

	openCtx, openCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer openCancel()
	if err = b.Client.OpenGateway(openCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}

func loadCatalog(ctx context.Context, cfg *clashbot.Config) (*catalog.Catalog, error) {
	if !cfg.Spaces.Enabled() {
		return catalog.LoadFile(cfg.Game.CatalogPath)
	}
	spaces := catalog.SpacesConfig{
		Key:    cfg.Spaces.Key,
		Secret: cfg.Spaces.Secret,
		Region: cfg.Spaces.Region,
		Bucket: cfg.Spaces.Bucket,
		Object: cfg.Spaces.CatalogKey,
	}
	client, err := catalog.NewSpacesClient(ctx, spaces)
	if err != nil {
		return nil, err
	}
	return catalog.LoadSpaces(ctx, client, spaces.Bucket, spaces.Object)
}

func buildGame(cfg *clashbot.Config, db *database.DB, cat *catalog.Catalog) (*game.Service, cards.Repository, error) {
	loc, err := cfg.Game.Location()
	if err != nil {
		return nil, nil, err
	}
	tiers, err := cfg.TierTable()
	if err != nil {
		return nil, nil, err
	}
	costs, err := cfg.Game.Costs()
	if err != nil {
		return nil, nil, err
	}

	cardRepo := repositories.NewCardRepository(db.BunDB())
	userRepo := repositories.NewUserRepository(db.BunDB())
	subRepo := repositories.NewSubscriptionRepository(db.BunDB())

	bus := events.NewBus()
	clashbot.LogEvents(bus)

	svc := game.New(
		game.Config{
			StartingBalance:     cfg.Game.StartingBalance,
			BattleReward:        cfg.Game.BattleReward,
			FusionCosts:         costs,
			EnhanceCostPerLevel: cfg.Game.EnhanceCostPerLevel,
			Trend:               cfg.Game.GeneratorTrend(),
		},
		db,
		cardRepo,
		userRepo,
		subRepo,
		cat,
		subscription.NewScheduler(tiers, loc),
		game.WithPublisher(bus),
	)
	return svc, cardRepo, nil
}
