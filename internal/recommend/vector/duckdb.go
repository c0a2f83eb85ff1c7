// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"

	"github.com/tomtom215/tastefeed/internal/database"
)

// NeighborSource runs a cosine nearest-neighbour query. *database.DB
// implements it.
type NeighborSource interface {
	NearestCandidates(ctx context.Context, query []float32, k int) ([]database.Neighbor, error)
}

// DuckDBIndex answers similarity queries with DuckDB's list_cosine_similarity.
type DuckDBIndex struct {
	source NeighborSource
}

// NewDuckDBIndex creates an index over the candidate_embeddings table.
func NewDuckDBIndex(source NeighborSource) *DuckDBIndex {
	return &DuckDBIndex{source: source}
}

// FindSimilar implements Index.
func (i *DuckDBIndex) FindSimilar(ctx context.Context, vector []float32, k int) ([]Match, error) {
	neighbors, err := i.source.NearestCandidates(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(neighbors))
	for j, n := range neighbors {
		matches[j] = Match{ID: n.CandidateID, Score: SimilarityScore(n.Similarity)}
	}
	return matches, nil
}
