package autoheal

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// TripleGenerator builds a triple from source text.
type TripleGenerator interface {
	GenerateTriple(ctx context.Context, src vector.Source) (vector.Triple, error)
}

// VectorStore persists a triple in a single write.
type VectorStore interface {
	SetVectors(ctx context.Context, id string, t vector.Triple) error
}
