// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tastefeed/internal/feed"
	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/middleware"
)

// FeedGenerator produces a user's feed.
type FeedGenerator interface {
	Generate(ctx context.Context, req feed.Request) (*feed.Result, error)
}

// CandidateInvalidator drops the cached candidate snapshot.
type CandidateInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports a circuit breaker's state.
type BreakerStater interface {
	State() gobreaker.State
}

// Dependencies are the services the handlers call. Feed and Candidates are
// required; Database and Breaker only feed the health endpoint.
type Dependencies struct {
	Feed       FeedGenerator
	Candidates CandidateInvalidator
	Database   Pinger
	Breaker    BreakerStater
}

// Options configures middleware.
type Options struct {
	// RateLimitRequests per RateLimitWindow per client IP; zero disables.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// CORSOrigins allowed for browser clients; empty disables CORS headers.
	CORSOrigins []string

	// Version is reported by the health endpoint.
	Version string
}

// Router builds the HTTP handler tree.
type Router struct {
	handler *Handler
	opts    Options
}

// NewRouter creates a Router.
func NewRouter(deps Dependencies, opts Options) (*Router, error) {
	if deps.Feed == nil {
		return nil, errors.New("feed generator is required")
	}
	if deps.Candidates == nil {
		return nil, errors.New("candidate invalidator is required")
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}
	return &Router{
		handler: newHandler(deps, opts.Version),
		opts:    opts,
	}, nil
}

// Handler returns the configured chi router.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.cors())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", rt.handler.Health)
		r.Get("/health/live", rt.handler.Live)

		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/users/{userID}/feed", rt.handler.GetFeed)
			r.Post("/candidates/invalidate", rt.handler.InvalidateCandidates)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (rt *Router) cors() func(http.Handler) http.Handler {
	if len(rt.opts.CORSOrigins) == 0 {
		return passthrough
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: rt.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	})
}

func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.opts.RateLimitRequests <= 0 {
		return passthrough
	}
	return httprate.Limit(
		rt.opts.RateLimitRequests,
		rt.opts.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(chi.RouteContext(r.Context()).RoutePattern()).Inc()
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}
