// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/config"
	"github.com/tomtom215/tastefeed/internal/database"
	"github.com/tomtom215/tastefeed/internal/events"
	"github.com/tomtom215/tastefeed/internal/feed"
	"github.com/tomtom215/tastefeed/internal/logging"
	"github.com/tomtom215/tastefeed/internal/recommend/storage"
	"github.com/tomtom215/tastefeed/internal/recommend/vector"
	"github.com/tomtom215/tastefeed/internal/supervisor"
	"github.com/tomtom215/tastefeed/internal/supervisor/services"
)

// initCache selects the candidate snapshot backend. The returned func
// releases backend connections.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCache(cfg *config.Config, logger zerolog.Logger) (storage.Cache, func()) {
	if cfg.Cache.Backend != storage.BackendRedis {
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("Using in-process candidate cache")
		return storage.NewMemoryCache(cfg.Cache.TTL), func() {}
	}

	client := storage.NewRedisClient(cfg.Cache.RedisURL)
	logger.Info().
		Str("key", cfg.Cache.RedisKey).
		Dur("ttl", cfg.Cache.TTL).
		Msg("Using redis candidate cache")

	return storage.NewRedisCache(client, cfg.Cache.RedisKey, cfg.Cache.TTL, logger), func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing redis client")
		}
	}
}

// vectorComponents holds the optional vector blending stack.
type vectorComponents struct {
	Blender *vector.Blender
	Breaker *vector.BreakerIndex

	// Refresh reloads an in-process index; nil for the duckdb backend.
	Refresh services.RefreshFunc

	// Indexer receives embeddings from events; nil for the duckdb backend,
	// which reads them straight from the candidate store.
	Indexer events.EmbeddingIndexer

	prefs *vector.BadgerPreferenceStore
}

// EventWriters returns the stores enrichment and profile events write to.
// Interface fields stay nil when a component is disabled.
func (v *vectorComponents) EventWriters(db *database.DB) events.Writers {
	w := events.Writers{Candidates: db, Profiles: db, Index: v.Indexer}
	if v.prefs != nil {
		w.Preferences = v.prefs
	}
	return w
}

// FeedBlender returns the blender as a feed.Blender, or nil when disabled so
// the feed service records the disabled path.
func (v *vectorComponents) FeedBlender() feed.Blender {
	if v.Blender == nil {
		return nil
	}
	return v.Blender
}

// Close releases the preference store.
func (v *vectorComponents) Close() {
	if v.prefs == nil {
		return
	}
	if err := v.prefs.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing preference store")
	}
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initVector(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*vectorComponents, error) {
	vc := &vectorComponents{}
	if !cfg.Vector.Enabled {
		logger.Info().Msg("Vector blending disabled, feeds use signal scores only")
		return vc, nil
	}

	prefs, err := vector.NewBadgerPreferenceStore(cfg.Vector.BadgerPath)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	vc.prefs = prefs

	var index vector.Index
	switch cfg.Vector.Backend {
	case "chromem":
		chromemIndex, err := vector.NewChromemIndex(logger)
		if err != nil {
			vc.Close()
			return nil, fmt.Errorf("create chromem index: %w", err)
		}
		index = chromemIndex
		vc.Indexer = chromemIndex
		vc.Refresh = func(ctx context.Context) error {
			return chromemIndex.Load(ctx, db)
		}
	default:
		index = vector.NewDuckDBIndex(db)
	}

	b := cfg.Vector.Breaker
	vc.Breaker = vector.NewBreakerIndex(index, vector.BreakerConfig{
		Name:             "vector-index",
		MaxRequests:      b.MaxRequests,
		Interval:         b.Interval,
		Timeout:          b.Timeout,
		FailureThreshold: b.FailureThreshold,
	}, logger)

	rc := cfg.RecommendConfig()
	vc.Blender = vector.NewBlender(vc.Breaker, prefs, rc.Vector, logger)

	logger.Info().
		Str("backend", cfg.Vector.Backend).
		Int("top_k", rc.Vector.TopK).
		Float64("weight", rc.Vector.Weight).
		Msg("Vector blending enabled")
	return vc, nil
}

// initEvents adds the event consumer when NATS is enabled, starting an
// embedded JetStream server first when configured. The consumer is the only
// writer of DuckDB and Badger while the service runs. The returned func stops
// the embedded server.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.Config, candidates events.Invalidator, writers events.Writers, tree *supervisor.Tree, logger zerolog.Logger) (func(), error) {
	if !cfg.NATS.Enabled {
		logger.Warn().Msg("NATS disabled, stores only change between restarts and the cache relies on TTL and the invalidate endpoint")
		return func() {}, nil
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger(logger.With().Str("component", "events").Logger()))
	subCfg := events.SubscriberConfigFrom(&cfg.NATS)

	stop := func() {}
	if cfg.NATS.Embedded {
		srv, err := events.StartEmbeddedServer(events.EmbeddedServerConfig{
			Port:     cfg.NATS.EmbeddedPort,
			StoreDir: cfg.NATS.StoreDir,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		subCfg.URL = srv.ClientURL()
		stop = srv.Shutdown
		logger.Info().Str("url", subCfg.URL).Msg("Embedded NATS JetStream server started")
	}

	svc, err := events.NewService(
		events.ServiceConfig{Topics: cfg.NATS.Topics, ProfileTopics: cfg.NATS.ProfileTopics},
		func() (message.Subscriber, error) { return events.NewSubscriber(subCfg, wmLogger) },
		candidates,
		wmLogger,
		events.WithWriters(writers),
	)
	if err != nil {
		stop()
		return nil, err
	}

	tree.AddEventService(svc)
	logger.Info().
		Str("url", subCfg.URL).
		Strs("topics", cfg.NATS.Topics).
		Strs("profile_topics", cfg.NATS.ProfileTopics).
		Bool("preference_vectors", writers.Preferences != nil).
		Msg("Event consumer added")
	return stop, nil
}
