// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package database

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/tastefeed/internal/config"
	"github.com/tomtom215/tastefeed/internal/recommend"
)

// testDBSemaphore serializes DuckDB tests; concurrent cgo connections can
// hang under CI resource pressure. Held for the whole test via t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestNew_Ping(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	checkNoError(t, db.Ping(context.Background()))
}

func TestClose_NilConnection(t *testing.T) {
	t.Parallel()

	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() on empty DB = %v, want nil", err)
	}
	if err := db.Ping(context.Background()); err == nil {
		t.Error("Ping() on empty DB should fail")
	}
}

func TestGetEnrichedCandidates(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	complete := recommend.CandidateProperty{
		ID:   "hotel-b",
		Name: "Hotel B",
		Signals: []recommend.Signal{
			{Dimension: "Design Language", Confidence: 0.9, Text: "raw concrete", Corroborated: true},
		},
		AntiSignals:      []recommend.Signal{{Dimension: "Service", Confidence: 0.4, Text: "stiff service"}},
		Facts:            map[string]any{"city": "Lisbon"},
		SignalCount:      1,
		ReliabilityScore: floatPtr(0.8),
	}
	second := recommend.CandidateProperty{
		ID:          "hotel-a",
		Name:        "Hotel A",
		Signals:     []recommend.Signal{{Dimension: "Food", Confidence: 0.7, Text: "natural wine"}},
		SignalCount: 1,
	}
	noSignals := recommend.CandidateProperty{ID: "hotel-c", Name: "Hotel C"}
	pending := recommend.CandidateProperty{
		ID:      "hotel-d",
		Name:    "Hotel D",
		Signals: []recommend.Signal{{Dimension: "Food", Confidence: 0.5, Text: "tasting menu"}},
	}

	checkNoError(t, db.UpsertCandidate(ctx, complete, EnrichmentComplete))
	checkNoError(t, db.UpsertCandidate(ctx, second, EnrichmentComplete))
	checkNoError(t, db.UpsertCandidate(ctx, noSignals, EnrichmentComplete))
	checkNoError(t, db.UpsertCandidate(ctx, pending, "pending"))

	got, err := db.GetEnrichedCandidates(ctx)
	checkNoError(t, err)

	if len(got) != 2 {
		t.Fatalf("GetEnrichedCandidates() returned %d candidates, want 2", len(got))
	}
	if got[0].ID != "hotel-a" || got[1].ID != "hotel-b" {
		t.Errorf("order = [%s %s], want [hotel-a hotel-b]", got[0].ID, got[1].ID)
	}

	b := got[1]
	if !reflect.DeepEqual(b.Signals, complete.Signals) {
		t.Errorf("signals = %+v, want %+v", b.Signals, complete.Signals)
	}
	if !reflect.DeepEqual(b.AntiSignals, complete.AntiSignals) {
		t.Errorf("anti-signals = %+v, want %+v", b.AntiSignals, complete.AntiSignals)
	}
	if b.Facts["city"] != "Lisbon" {
		t.Errorf("facts = %v, want city Lisbon", b.Facts)
	}
	if b.ReliabilityScore == nil || *b.ReliabilityScore != 0.8 {
		t.Errorf("reliability = %v, want 0.8", b.ReliabilityScore)
	}
	if got[0].ReliabilityScore != nil {
		t.Errorf("hotel-a reliability = %v, want nil", *got[0].ReliabilityScore)
	}
}

func TestListCandidates_Filters(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	sig := []recommend.Signal{{Dimension: "Food", Confidence: 0.5, Text: "wood fire"}}
	checkNoError(t, db.UpsertCandidate(ctx, recommend.CandidateProperty{ID: "a", Name: "A", Signals: sig}, EnrichmentComplete))
	checkNoError(t, db.UpsertCandidate(ctx, recommend.CandidateProperty{ID: "b", Name: "B"}, "pending"))
	checkNoError(t, db.UpsertCandidate(ctx, recommend.CandidateProperty{ID: "c", Name: "C"}, "failed"))

	tests := []struct {
		name   string
		filter CandidateFilter
		want   []string
	}{
		{"no filter", CandidateFilter{}, []string{"a", "b", "c"}},
		{"status", CandidateFilter{Statuses: []string{"pending", "failed"}}, []string{"b", "c"}},
		{"signals required", CandidateFilter{RequireSignals: true}, []string{"a"}},
	}

	for _, tt := range tests {
		got, err := db.ListCandidates(ctx, tt.filter)
		checkNoError(t, err)

		ids := make([]string, 0, len(got))
		for i := range got {
			ids = append(ids, got[i].ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("%s: ids = %v, want %v", tt.name, ids, tt.want)
		}
	}
}

func TestUpsertCandidate_Replaces(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	c := recommend.CandidateProperty{
		ID:      "bar-1",
		Name:    "Old Name",
		Signals: []recommend.Signal{{Dimension: "Food", Confidence: 0.5, Text: "amaro list"}},
	}
	checkNoError(t, db.UpsertCandidate(ctx, c, EnrichmentComplete))

	c.Name = "New Name"
	checkNoError(t, db.UpsertCandidate(ctx, c, EnrichmentComplete))

	got, err := db.GetEnrichedCandidates(ctx)
	checkNoError(t, err)
	if len(got) != 1 || got[0].Name != "New Name" {
		t.Errorf("got %+v, want one candidate named New Name", got)
	}
}

func TestUserProfile_RoundTrip(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	want := &recommend.UserProfile{
		UserID: "user-1",
		Taste: recommend.TasteProfile{
			recommend.DomainDesign: 90,
			recommend.DomainFood:   70,
		},
		MicroSignals: recommend.MicroSignals{
			recommend.DomainDesign: {"raw concrete", "minimalist"},
		},
		Contradictions: []recommend.Contradiction{
			{Stated: "minimalist", Revealed: "maximalist", Resolution: "curated", MatchRule: "both"},
		},
		LifeContext: recommend.LifeContext{Companion: "with partner", Season: "Winter"},
	}
	checkNoError(t, db.UpsertUserProfile(ctx, want))

	got, err := db.GetUserProfile(ctx, "user-1")
	checkNoError(t, err)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetUserProfile() = %+v, want %+v", got, want)
	}
}

func TestGetUserProfile_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	_, err := db.GetUserProfile(context.Background(), "missing")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("error = %v, want ErrProfileNotFound", err)
	}
}

func TestNearestCandidates(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "same", []float32{1, 0, 0}))
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "close", []float32{1, 1, 0}))
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "orthogonal", []float32{0, 0, 1}))
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "twin", []float32{2, 0, 0}))
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "short", []float32{1, 0}))

	got, err := db.NearestCandidates(ctx, []float32{1, 0, 0}, 3)
	checkNoError(t, err)

	if len(got) != 3 {
		t.Fatalf("NearestCandidates() returned %d, want 3", len(got))
	}
	wantIDs := []string{"same", "twin", "close"}
	for i, n := range got {
		if n.CandidateID != wantIDs[i] {
			t.Errorf("neighbor[%d] = %s, want %s", i, n.CandidateID, wantIDs[i])
		}
	}
	if math.Abs(got[0].Similarity-1) > 1e-6 {
		t.Errorf("similarity of identical vector = %f, want 1", got[0].Similarity)
	}
	if math.Abs(got[2].Similarity-1/math.Sqrt2) > 1e-6 {
		t.Errorf("similarity of 45 degree vector = %f, want %f", got[2].Similarity, 1/math.Sqrt2)
	}
}

func TestNearestCandidates_Degenerate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "a", []float32{1, 0}))

	tests := []struct {
		name  string
		query []float32
		k     int
	}{
		{"zero k", []float32{1, 0}, 0},
		{"empty query", nil, 5},
		{"zero vector", []float32{0, 0}, 5},
	}
	for _, tt := range tests {
		got, err := db.NearestCandidates(ctx, tt.query, tt.k)
		checkNoError(t, err)
		if len(got) != 0 {
			t.Errorf("%s: got %d neighbors, want 0", tt.name, len(got))
		}
	}

	if err := db.UpsertCandidateEmbedding(ctx, "b", nil); err == nil {
		t.Error("UpsertCandidateEmbedding() with empty vector should fail")
	}
}

func TestCandidateEmbeddings(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "b", []float32{0.25, 0.5}))
	checkNoError(t, db.UpsertCandidateEmbedding(ctx, "a", []float32{1, -1}))

	got, err := db.CandidateEmbeddings(ctx)
	checkNoError(t, err)

	want := []CandidateEmbedding{
		{CandidateID: "a", Embedding: []float32{1, -1}},
		{CandidateID: "b", Embedding: []float32{0.25, 0.5}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CandidateEmbeddings() = %+v, want %+v", got, want)
	}
}
