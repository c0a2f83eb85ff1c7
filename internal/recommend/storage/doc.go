// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

// Package storage supplies candidate snapshots and user profiles to the feed
// pipeline.
//
// # Candidate Store
//
// CandidateStore serves the enriched, matchable candidates (enrichment
// complete, at least one signal) through a Cache:
//
//	store := storage.NewCandidateStore(db, storage.NewMemoryCache(5*time.Minute), logger)
//	candidates, err := store.FetchCandidates(ctx)
//	...
//	store.Invalidate(ctx) // new enrichment data is available
//
// A snapshot younger than the TTL is served as is; otherwise the backing
// store is queried and the snapshot replaced. Invalidate discards the
// snapshot so the next fetch always goes to the backing store.
//
// # Cache Backends
//
//   - MemoryCache: process-local snapshot guarded by a mutex. The fetch runs
//     outside the lock, so concurrent misses may each fetch; the last write
//     wins. A fetch that started before an Invalidate never repopulates the
//     cache.
//   - RedisCache: JSON snapshot under one Redis key with the TTL as expiry,
//     shared by every replica. A generation key next to it carries the same
//     guarantee across replicas: a fetch that overlaps an Invalidate anywhere
//     is not written back.
//
// # Profiles
//
// ProfileStore loads user profiles and validates them before scoring.
package storage
