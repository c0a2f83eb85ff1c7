// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

package vector

import (
	"context"
	"errors"
	"math"
)

// ErrNoPreferenceVector means the user has no stored preference vector.
var ErrNoPreferenceVector = errors.New("no preference vector")

// Match is a nearest-neighbour hit with its similarity mapped to [0, 100].
type Match struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// Index finds the candidates most similar to a vector.
type Index interface {
	// FindSimilar returns up to k matches ordered by descending similarity.
	FindSimilar(ctx context.Context, vector []float32, k int) ([]Match, error)
}

// PreferenceStore supplies learned per-user preference vectors.
type PreferenceStore interface {
	// GetUserVector returns ErrNoPreferenceVector when none is stored.
	GetUserVector(ctx context.Context, userID string) ([]float32, error)
}

// SimilarityScore maps a cosine similarity to a 0-100 score. Negative
// similarities score 0.
func SimilarityScore(similarity float64) int {
	if math.IsNaN(similarity) || similarity <= 0 {
		return 0
	}
	if similarity >= 1 {
		return 100
	}
	return int(math.Round(similarity * 100))
}
