// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package storage

import (
	"context"

	"github.com/tomtom215/tastefeed/internal/recommend"
)

// Cache backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// FetchFunc loads a fresh candidate snapshot from the backing store.
type FetchFunc func(ctx context.Context) ([]recommend.CandidateProperty, error)

// Cache holds one candidate snapshot with a time-based expiry.
type Cache interface {
	// GetOrFetch returns the cached snapshot while it is fresh, otherwise it
	// calls fetch and caches the result. Fetch errors are returned unchanged
	// and leave the cache untouched.
	GetOrFetch(ctx context.Context, fetch FetchFunc) ([]recommend.CandidateProperty, error)

	// Invalidate discards the snapshot.
	Invalidate(ctx context.Context) error

	// Backend names the implementation for logs and metrics.
	Backend() string
}
