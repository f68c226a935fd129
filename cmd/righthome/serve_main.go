package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/righthome/righthome/internal/application"
	"github.com/righthome/righthome/internal/cache"
	httpserver "github.com/righthome/righthome/internal/interfaces/http"
	"github.com/righthome/righthome/internal/persistence"
	"github.com/righthome/righthome/internal/persistence/postgres"
	"github.com/righthome/righthome/internal/stream"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := httpserver.NewMetricsRegistry()
	opts := []application.Option{application.WithMetrics(metrics)}

	if cfg.Redis.Enabled {
		scoreCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cfg.Redis.KeyPrefix, cfg.Redis.TTL.Duration)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer scoreCache.Close()
		opts = append(opts, application.WithCache(scoreCache))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("score cache enabled")
	}

	var repo persistence.PropertiesRepo
	if cfg.Database.Enabled {
		db, err := postgres.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repo = postgres.NewPropertiesRepo(db, cfg.Database.Timeout.Duration)
		log.Info().Msg("property storage enabled")
	}

	hub := stream.NewHub()
	go func() { _ = hub.Run(ctx) }()
	opts = append(opts, application.WithEvents(hub))

	rec := application.NewRecommender(newCalculator(cfg), newGenerator(cfg), opts...)

	server, err := httpserver.NewServer(cfg.Server, httpserver.ServerDeps{
		Recommender: rec,
		Metrics:     metrics,
		Hub:         hub,
		Repo:        repo,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	log.Info().
		Str("addr", server.Address()).
		Str("weights", rec.Calculator().Fingerprint()).
		Msg("righthome serving")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("righthome stopped")
	return nil
}
