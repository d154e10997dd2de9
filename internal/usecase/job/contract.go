package job

import (
	"context"

	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Repository stores jobs.
type Repository interface {
	Save(ctx context.Context, j *domjob.Job) error
	Get(ctx context.Context, id string) (*domjob.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*domjob.Job, error)
}

// TripleGenerator builds a triple from source text.
type TripleGenerator interface {
	GenerateTriple(ctx context.Context, src vector.Source) (vector.Triple, error)
}
