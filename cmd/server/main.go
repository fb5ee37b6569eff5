package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/cyberfront/internal/combat"
	"github.com/playperu/cyberfront/internal/config"
	"github.com/playperu/cyberfront/internal/database"
	"github.com/playperu/cyberfront/internal/engine"
	"github.com/playperu/cyberfront/internal/handler/health"
	"github.com/playperu/cyberfront/internal/migrations"
	"github.com/playperu/cyberfront/internal/notify"
	"github.com/playperu/cyberfront/internal/random"
	"github.com/playperu/cyberfront/internal/server"
	"github.com/playperu/cyberfront/internal/store"
	"github.com/playperu/cyberfront/internal/timer"
	"github.com/playperu/cyberfront/internal/turn"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	version, err := migrations.Run(ctx, db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)
	records := store.New(db)

	checks := map[string]health.Checker{"sqlite": health.DB(db)}

	// --- Notifications ---
	broker := notify.NewBroker()
	var pub notify.Publisher = broker
	var relay *notify.RedisRelay
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		relay = notify.NewRedisRelay(rdb, broker, logger)
		pub = relay
		checks["redis"] = health.Redis(rdb)
	}

	// --- Game engine ---
	seed, err := random.NewSeed()
	if err != nil {
		return fmt.Errorf("seeding random source: %w", err)
	}
	dice, err := random.NewSecure()
	if err != nil {
		return fmt.Errorf("opening dice source: %w", err)
	}
	machine, err := turn.New(cfg.Rules(), random.New(seed), combat.NewRandomDice(dice), uuid.NewString)
	if err != nil {
		return fmt.Errorf("building rules: %w", err)
	}

	// The timer calls back into the engine, which owns the timer.
	var games *engine.Service
	timers := timer.NewRegistry(ctx, logger, cfg.TickInterval,
		func(gameID string, remaining int) { games.Tick(gameID, remaining) },
		func(ctx context.Context, gameID string, seq int64) { games.Expire(ctx, gameID, seq) },
	)
	defer timers.Close()
	games = engine.New(records, machine, timers, pub, logger)

	restored, err := games.RestoreTimers(ctx)
	if err != nil {
		return fmt.Errorf("restoring turn timers: %w", err)
	}
	logger.Info("turn timers restored", "games", restored)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:     logger,
		Users:      records,
		Games:      games,
		Events:     broker,
		Checks:     checks,
		SessionTTL: cfg.SessionTTL,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	g.Go(func() error {
		return sweepSessions(gctx, logger, records, cfg.SessionTTL)
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
