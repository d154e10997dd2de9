// Package result holds the shapes retrieval hands to scoring.
package result

// Candidate is a retrieved entity with its recall score in [0, 1].
type Candidate[T any] struct {
	Entity T
	Score  float64
}
