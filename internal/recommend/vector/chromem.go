// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastefeed/internal/database"
)

const chromemCollection = "candidates"

// errTextEmbedding is returned by the collection's embedding func. Every
// document and query carries a precomputed embedding, so it is never called.
var errTextEmbedding = errors.New("text embedding is not supported")

// EmbeddingSource lists stored candidate embeddings. *database.DB implements it.
type EmbeddingSource interface {
	CandidateEmbeddings(ctx context.Context) ([]database.CandidateEmbedding, error)
}

// ChromemIndex is an in-process nearest-neighbour index backed by chromem-go.
// All embeddings must share one dimension; the first loaded fixes it.
type ChromemIndex struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	dimension  int
	logger     zerolog.Logger
}

// NewChromemIndex creates an empty in-memory index.
func NewChromemIndex(logger zerolog.Logger) (*ChromemIndex, error) {
	idx := &ChromemIndex{
		db:     chromem.NewDB(),
		logger: logger.With().Str("component", "chromem_index").Logger(),
	}
	if err := idx.reset(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *ChromemIndex) reset() error {
	if i.collection != nil {
		if err := i.db.DeleteCollection(chromemCollection); err != nil {
			return fmt.Errorf("delete collection %s: %w", chromemCollection, err)
		}
	}
	collection, err := i.db.GetOrCreateCollection(chromemCollection, nil, embedText)
	if err != nil {
		return fmt.Errorf("getting/creating collection %s: %w", chromemCollection, err)
	}
	i.collection = collection
	i.dimension = 0
	return nil
}

// Load replaces the index contents with every embedding in source. Zero
// vectors and embeddings of a different dimension are skipped.
func (i *ChromemIndex) Load(ctx context.Context, source EmbeddingSource) error {
	embeddings, err := source.CandidateEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("list candidate embeddings: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.reset(); err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(embeddings))
	skipped := 0
	for _, e := range embeddings {
		if !i.accepts(e.Embedding) {
			skipped++
			continue
		}
		if i.dimension == 0 {
			i.dimension = len(e.Embedding)
		}
		docs = append(docs, chromem.Document{
			ID:        e.CandidateID,
			Content:   e.CandidateID,
			Embedding: e.Embedding,
		})
	}

	if len(docs) > 0 {
		// Concurrency of 1 since embeddings are precomputed
		if err := i.collection.AddDocuments(ctx, docs, 1); err != nil {
			return fmt.Errorf("adding documents: %w", err)
		}
	}

	i.logger.Info().
		Int("loaded", len(docs)).
		Int("skipped", skipped).
		Int("dimension", i.dimension).
		Msg("Candidate embeddings loaded")
	return nil
}

// Add inserts or replaces one candidate embedding.
func (i *ChromemIndex) Add(ctx context.Context, candidateID string, embedding []float32) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.accepts(embedding) {
		return fmt.Errorf("embedding of %s: want %d non-zero dimensions, got %d", candidateID, i.dimension, len(embedding))
	}
	if i.dimension == 0 {
		i.dimension = len(embedding)
	}

	err := i.collection.AddDocument(ctx, chromem.Document{
		ID:        candidateID,
		Content:   candidateID,
		Embedding: embedding,
	})
	if err != nil {
		return fmt.Errorf("adding document %s: %w", candidateID, err)
	}
	return nil
}

// Count returns the number of indexed candidates.
func (i *ChromemIndex) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.collection.Count()
}

// FindSimilar implements Index. A vector of the wrong dimension matches nothing.
func (i *ChromemIndex) FindSimilar(ctx context.Context, vector []float32, k int) ([]Match, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount := i.collection.Count()
	if docCount == 0 || k <= 0 || len(vector) != i.dimension || isZero(vector) {
		return []Match{}, nil
	}
	if k > docCount {
		k = docCount
	}

	results, err := i.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", chromemCollection, err)
	}

	matches := make([]Match, len(results))
	for j, r := range results {
		matches[j] = Match{ID: r.ID, Score: SimilarityScore(float64(r.Similarity))}
	}
	return matches, nil
}

func (i *ChromemIndex) accepts(embedding []float32) bool {
	if len(embedding) == 0 || isZero(embedding) {
		return false
	}
	return i.dimension == 0 || len(embedding) == i.dimension
}

func embedText(_ context.Context, _ string) ([]float32, error) {
	return nil, errTextEmbedding
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
