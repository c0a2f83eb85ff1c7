// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/tastefeed/internal/metrics"
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// MemoryCache is a process-local snapshot cache.
type MemoryCache struct {
	mu         sync.Mutex
	snapshot   []recommend.CandidateProperty
	valid      bool
	fetchedAt  time.Time
	generation uint64
	ttl        time.Duration
	now        func() time.Time
	stats      Stats
}

// Stats tracks cache performance.
type Stats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	LastFetch     time.Time
}

// NewMemoryCache creates an empty cache. A zero TTL disables caching.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

// Backend implements Cache.
func (c *MemoryCache) Backend() string { return BackendMemory }

// GetOrFetch implements Cache.
func (c *MemoryCache) GetOrFetch(ctx context.Context, fetch FetchFunc) ([]recommend.CandidateProperty, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		snapshot := c.snapshot
		c.stats.Hits++
		c.mu.Unlock()
		metrics.RecordCacheLookup(BackendMemory, true)
		return snapshot, nil
	}
	c.stats.Misses++
	generation := c.generation
	c.mu.Unlock()
	metrics.RecordCacheLookup(BackendMemory, false)

	candidates, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// An Invalidate during the fetch wins over the possibly stale result
	if c.generation == generation {
		c.snapshot = candidates
		c.valid = true
		c.fetchedAt = c.now()
		c.stats.LastFetch = c.fetchedAt
	}
	c.mu.Unlock()

	return candidates, nil
}

// Invalidate implements Cache.
func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = nil
	c.valid = false
	c.generation++
	c.stats.Invalidations++
	return nil
}

// GetStats returns a copy of the cache statistics.
func (c *MemoryCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
