// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/recommend"
	"github.com/tomtom215/tastefeed/internal/testinfra"
)

func startRedis(t *testing.T) string {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	redis, err := testinfra.NewRedisContainer(context.Background())
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	testinfra.TerminateOnCleanup(t, redis)
	return redis.URL
}

// Two replicas sharing one key see each other's snapshot and invalidation.
func TestRedisCache_SharedAcrossReplicas(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	clientA := NewRedisClient(url)
	clientB := NewRedisClient(url)
	t.Cleanup(func() {
		clientA.Close()
		clientB.Close()
	})

	srcA := &countingSource{candidates: []recommend.CandidateProperty{withSignal("a"), withSignal("b")}}
	srcB := &countingSource{candidates: []recommend.CandidateProperty{withSignal("a"), withSignal("b")}}
	storeA := NewCandidateStore(srcA, NewRedisCache(clientA, "tastefeed:it:shared", time.Minute, zerolog.Nop()), zerolog.Nop())
	storeB := NewCandidateStore(srcB, NewRedisCache(clientB, "tastefeed:it:shared", time.Minute, zerolog.Nop()), zerolog.Nop())

	if _, err := storeA.FetchCandidates(ctx); err != nil {
		t.Fatalf("replica A FetchCandidates() error = %v", err)
	}
	got, err := storeB.FetchCandidates(ctx)
	if err != nil {
		t.Fatalf("replica B FetchCandidates() error = %v", err)
	}
	if len(got) != 2 || srcB.Calls() != 0 {
		t.Fatalf("replica B got %d candidates with %d source calls, want 2 from the shared cache", len(got), srcB.Calls())
	}

	if err := storeA.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, err := storeB.FetchCandidates(ctx); err != nil {
		t.Fatalf("replica B FetchCandidates() error = %v", err)
	}
	if srcB.Calls() != 1 {
		t.Errorf("replica B source calls after invalidate = %d, want 1", srcB.Calls())
	}
}

// An invalidation on one replica discards a fetch in flight on another.
func TestRedisCache_InvalidateOnOtherReplicaDuringFetch(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	clientA := NewRedisClient(url)
	clientB := NewRedisClient(url)
	t.Cleanup(func() {
		clientA.Close()
		clientB.Close()
	})

	cacheA := NewRedisCache(clientA, "tastefeed:it:race", time.Minute, zerolog.Nop())
	cacheB := NewRedisCache(clientB, "tastefeed:it:race", time.Minute, zerolog.Nop())

	_, err := cacheA.GetOrFetch(ctx, func(ctx context.Context) ([]recommend.CandidateProperty, error) {
		if err := cacheB.Invalidate(ctx); err != nil {
			t.Errorf("replica B Invalidate() error = %v", err)
		}
		return []recommend.CandidateProperty{withSignal("stale")}, nil
	})
	if err != nil {
		t.Fatalf("replica A GetOrFetch() error = %v", err)
	}

	src := &countingSource{candidates: []recommend.CandidateProperty{withSignal("fresh")}}
	got, err := NewCandidateStore(src, cacheB, zerolog.Nop()).FetchCandidates(ctx)
	if err != nil {
		t.Fatalf("replica B FetchCandidates() error = %v", err)
	}
	if src.Calls() != 1 || len(got) != 1 || got[0].ID != "fresh" {
		t.Errorf("replica B got %+v with %d source calls, want a fresh fetch", got, src.Calls())
	}
}

func TestRedisCache_ExpiresAfterTTL(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	client := NewRedisClient(url)
	t.Cleanup(func() { client.Close() })

	src := &countingSource{candidates: []recommend.CandidateProperty{withSignal("a")}}
	store := NewCandidateStore(src, NewRedisCache(client, "tastefeed:it:ttl", time.Second, zerolog.Nop()), zerolog.Nop())

	if _, err := store.FetchCandidates(ctx); err != nil {
		t.Fatalf("FetchCandidates() error = %v", err)
	}
	if _, err := store.FetchCandidates(ctx); err != nil {
		t.Fatalf("FetchCandidates() error = %v", err)
	}
	if src.Calls() != 1 {
		t.Fatalf("source calls within TTL = %d, want 1", src.Calls())
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := store.FetchCandidates(ctx); err != nil {
		t.Fatalf("FetchCandidates() error = %v", err)
	}
	if src.Calls() != 2 {
		t.Errorf("source calls after expiry = %d, want 2", src.Calls())
	}
}
