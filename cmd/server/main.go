package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trackboard/trackboard/internal/cache"
	"github.com/trackboard/trackboard/internal/catalog"
	"github.com/trackboard/trackboard/internal/config"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/handler/health"
	"github.com/trackboard/trackboard/internal/migrations"
	"github.com/trackboard/trackboard/internal/server"
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
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, err := migrations.Version(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	store := server.NewSQLiteStore(db)
	if cfg.SeedCatalog {
		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		if err := server.SeedCatalog(ctx, logger, store, cat); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
	}

	// --- Redis (optional) ---
	checks := map[string]health.Checker{"sqlite": dbChecker{db}}
	var disabled []string
	tracksCache := cache.New(nil, 0)
	if cfg.RedisURL != "" {
		rdb, err := cache.Open(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		tracksCache = cache.New(rdb, time.Minute)
		defer tracksCache.Close()
		checks["redis"] = tracksCache
		logger.Info("connected to redis")
	} else {
		disabled = append(disabled, "redis")
		logger.Info("redis not configured, tracks overview is not cached")
	}

	auth, err := server.NewAuthenticator(cfg.JWTSecret, cfg.CreatorID)
	if err != nil {
		return fmt.Errorf("configuring auth: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:          logger,
		Store:           store,
		Auth:            auth,
		Cache:           tracksCache,
		Health:          health.NewHandler(logger, checks, disabled...).Routes(),
		CORSOrigins:     cfg.CORSOrigins,
		WriteRateLimit:  cfg.WriteRateLimit,
		WriteRateWindow: cfg.WriteRateEvery,
		SPADir:          cfg.SPADir,
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

	return g.Wait()
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }
