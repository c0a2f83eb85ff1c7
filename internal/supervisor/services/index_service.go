// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshFunc rebuilds an index from its source of truth.
type RefreshFunc func(ctx context.Context) error

// IndexRefreshConfig holds refresh scheduling.
type IndexRefreshConfig struct {
	// Interval between refreshes. Default: 10m.
	Interval time.Duration

	// Timeout bounds one refresh. Default: 2m.
	Timeout time.Duration
}

// IndexRefreshService loads the vector index on start and then periodically.
// A failed refresh keeps the previous index contents and is retried on the
// next tick rather than restarting the service.
type IndexRefreshService struct {
	refresh RefreshFunc
	config  IndexRefreshConfig
	logger  zerolog.Logger
	now     func() time.Time
}

// NewIndexRefreshService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIndexRefreshService(refresh RefreshFunc, cfg IndexRefreshConfig, logger zerolog.Logger) *IndexRefreshService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &IndexRefreshService{
		refresh: refresh,
		config:  cfg,
		logger:  logger.With().Str("service", "index-refresh").Logger(),
		now:     time.Now,
	}
}

// Serve implements suture.Service.
func (s *IndexRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Msg("Index refresh service starting")
	s.run(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Index refresh service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *IndexRefreshService) run(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := s.now()
	if err := s.refresh(refreshCtx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("Index refresh failed, keeping previous contents")
		}
		return
	}
	s.logger.Debug().Dur("duration", s.now().Sub(start)).Msg("Index refreshed")
}

// String names the service in supervisor logs.
func (s *IndexRefreshService) String() string {
	return "index-refresh"
}
