// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tastefeed/internal/api"
	"github.com/tomtom215/tastefeed/internal/config"
	"github.com/tomtom215/tastefeed/internal/database"
	"github.com/tomtom215/tastefeed/internal/feed"
	"github.com/tomtom215/tastefeed/internal/logging"
	"github.com/tomtom215/tastefeed/internal/recommend/storage"
	"github.com/tomtom215/tastefeed/internal/supervisor"
	"github.com/tomtom215/tastefeed/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("vector_enabled", cfg.Vector.Enabled).
		Str("vector_backend", cfg.Vector.Backend).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting tastefeed")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	cache, closeCache := initCache(cfg, logger)
	defer closeCache()

	candidates := storage.NewCandidateStore(db, cache, logger)
	profiles := storage.NewProfileStore(db)

	vec, err := initVector(cfg, db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize vector blending")
	}
	defer vec.Close()

	feedSvc, err := feed.NewService(cfg.RecommendConfig(), candidates, profiles, vec.FeedBlender(),
		feed.Options{Timeout: cfg.Feed.Timeout}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create feed service")
	}

	deps := api.Dependencies{
		Feed:       feedSvc,
		Candidates: candidates,
		Database:   db,
	}
	if vec.Breaker != nil {
		deps.Breaker = vec.Breaker
	}
	router, err := api.NewRouter(deps, api.Options{
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Version:           version,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API router")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog writes through slog; route it into zerolog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(logger.With().Str("component", "supervisor").Logger()),
		supervisor.TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if vec.Refresh != nil {
		tree.AddIndexService(services.NewIndexRefreshService(vec.Refresh, services.IndexRefreshConfig{
			Interval: cfg.Vector.RefreshInterval,
		}, logger))
		logger.Info().Dur("interval", cfg.Vector.RefreshInterval).Msg("Index refresh service added")
	}

	stopNATS, err := initEvents(cfg, candidates, vec.EventWriters(db), tree, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event consumer")
	}
	defer stopNATS()

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logger.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Blocks until a signal cancels ctx or the root supervisor gives up.
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logger.Info().Msg("Stopped")
}
