// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tastefeed/internal/feed"
	"github.com/tomtom215/tastefeed/internal/logging"
	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/recommend/storage"
	"github.com/tomtom215/tastefeed/internal/validation"
)

// maxUserIDLength bounds the path parameter before it reaches the store.
const maxUserIDLength = 128

// Handler serves the API endpoints.
type Handler struct {
	deps      Dependencies
	version   string
	startTime time.Time
}

func newHandler(deps Dependencies, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{deps: deps, version: version, startTime: time.Now()}
}

// GetFeed handles GET /api/v1/users/{userID}/feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" || len(userID) > maxUserIDLength {
		rw.BadRequest("Invalid user ID")
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	req := feed.Request{
		RequestID:   logging.RequestIDFromContext(ctx),
		UserID:      userID,
		LifeContext: lifeContextOverride(r),
	}

	res, err := h.deps.Feed.Generate(ctx, req)
	if err != nil {
		h.feedError(rw, err)
		return
	}
	rw.Success(res)
}

func (h *Handler) feedError(rw *ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, storage.ErrProfileNotFound):
		rw.NotFound("No taste profile for this user")
	case errors.As(err, &verr):
		rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeValidationFailed,
			"Stored taste profile is invalid", verr.Fields)
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Feed generation timed out")
	default:
		rw.InternalError("Feed generation failed", err)
	}
}

// lifeContextOverride reads the companion and season query parameters.
// Nil means the stored life context applies.
func lifeContextOverride(r *http.Request) *recommend.LifeContext {
	q := r.URL.Query()
	companion := strings.TrimSpace(q.Get("companion"))
	season := strings.TrimSpace(q.Get("season"))
	if companion == "" && season == "" {
		return nil
	}
	return &recommend.LifeContext{Companion: companion, Season: season}
}

// InvalidateCandidates handles POST /api/v1/candidates/invalidate
func (h *Handler) InvalidateCandidates(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.deps.Candidates.Invalidate(r.Context()); err != nil {
		rw.InternalError("Candidate invalidation failed", err)
		return
	}
	metrics.RecordInvalidation("api")
	rw.Accepted(map[string]bool{"invalidated": true})
}

// HealthStatus is the readiness payload.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	VectorBreaker     string  `json:"vector_breaker,omitempty"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health handles GET /api/v1/health. An unreachable database is unhealthy;
// an open vector breaker only degrades since feeds fall back to signals.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Status:            "healthy",
		Version:           h.version,
		DatabaseConnected: true,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	if h.deps.Database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status.DatabaseConnected = h.deps.Database.Ping(ctx) == nil
	}
	if h.deps.Breaker != nil {
		state := h.deps.Breaker.State()
		status.VectorBreaker = state.String()
		if state == gobreaker.StateOpen {
			status.Status = "degraded"
		}
	}

	if !status.DatabaseConnected {
		status.Status = "unhealthy"
		rw.write(http.StatusServiceUnavailable, APIResponse{Data: status, Meta: rw.meta()})
		return
	}
	rw.Success(status)
}

// Live handles GET /api/v1/health/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}
