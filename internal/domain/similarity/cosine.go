// Package similarity is the single implementation of vector similarity used by scoring.
package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different length yield ErrDimensionMismatch; a zero-magnitude
// vector yields 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push |sim| slightly above 1
	return math.Max(-1, math.Min(1, sim)), nil
}
