// Package vectors provides similarity and normalization utilities for
// embedding vectors.
package vectors

import (
	"errors"
	"math"
)

var (
	// ErrZeroVector is returned when a similarity input has zero L2 norm;
	// cosine similarity is undefined for the zero vector.
	ErrZeroVector = errors.New("vectors: zero-length vector")
	// ErrDimensionMismatch is returned when the two inputs differ in length.
	ErrDimensionMismatch = errors.New("vectors: dimension mismatch")
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1]. Accumulation is
// done in float64 so 1536-dimension float32 embeddings don't lose precision.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp rounding drift so callers can rely on the [-1, 1] contract.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}

	return sim, nil
}

// NormalizeL2 scales vector to unit length in place. A zero vector is left
// unchanged.
func NormalizeL2(vector []float32) {
	var sumSquares float64

	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}

	if sumSquares == 0 {
		return
	}

	magnitude := math.Sqrt(sumSquares)

	for i := range vector {
		vector[i] = float32(float64(vector[i]) / magnitude)
	}
}
