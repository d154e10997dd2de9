package profile

import (
	"context"

	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Repository stores profiles.
type Repository interface {
	Save(ctx context.Context, p *domprofile.Profile) error
	Get(ctx context.Context, id string) (*domprofile.Profile, error)
}

// TripleGenerator builds a triple from source text.
type TripleGenerator interface {
	GenerateTriple(ctx context.Context, src vector.Source) (vector.Triple, error)
}
