package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/duelworks/duel-server-go/internal/cards"
	"github.com/duelworks/duel-server-go/internal/combat"
	"github.com/duelworks/duel-server-go/internal/config"
	"github.com/duelworks/duel-server-go/internal/repository"
	"github.com/duelworks/duel-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Card catalog: Postgres-backed when a database is configured, the
	// built-in starter set otherwise.
	var (
		catalog cards.Catalog
		decks   server.DeckSource
	)
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		cardRepo := repository.NewCardRepository(db)
		loaded, loadErr := cardRepo.LoadCatalog(ctx)
		if loadErr != nil {
			logger.Fatal("failed to load card catalog", zap.Error(loadErr))
		}
		logger.Info("card catalog loaded", zap.Int("cards", loaded.Len()))
		catalog = loaded

		decks = &repoDeckSource{repo: repository.NewDeckRepository(db)}
	} else {
		catalog = cards.NewStaticCatalog(cards.StarterSet()...)
		logger.Info("using built-in starter catalog")
	}

	registry := combat.NewRegistry(logger)
	session := combat.NewSession(catalog, registry, nil, combatConfig(cfg.Combat), logger)

	hub := server.NewHub(session, cfg.Combat, decks, logger)
	session.SetNotifier(hub)
	go hub.Run(ctx)

	go func() {
		if wsErr := server.StartWebSocketServer(cfg.Server.WebSocket, hub, logger); wsErr != nil {
			logger.Error("websocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("duel server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()
	session.Close()

	logger.Info("duel server stopped")
}

// repoDeckSource reads persisted decks, falling back to the starter deck for
// owners with no saved cards.
type repoDeckSource struct {
	repo *repository.DeckRepository
}

func (s *repoDeckSource) DeckFor(ctx context.Context, ownerID string) ([]string, error) {
	deck, err := s.repo.GetDeck(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(deck) == 0 {
		return cards.StarterDeck(), nil
	}
	return deck, nil
}

func combatConfig(cfg config.CombatConfig) combat.Config {
	return combat.Config{
		InitialHandSize:    cfg.InitialHandSize,
		MaxHandSize:        cfg.MaxHandSize,
		CritChance:         cfg.CritChance,
		CritMultiplier:     cfg.CritMultiplier,
		ResponderPlayDelay: cfg.ResponderPlayDelay,
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
