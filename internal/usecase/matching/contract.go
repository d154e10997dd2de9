package matching

import (
	"context"

	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/result"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/repository/retrieval"
)

// ProfileReader reads job seeker profiles.
type ProfileReader interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// JobReader reads jobs.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
}

// Healer guarantees an entity triple before matching.
type Healer interface {
	EnsureProfile(ctx context.Context, p *profile.Profile) (vector.Triple, error)
	EnsureJob(ctx context.Context, j *job.Job) (vector.Triple, error)
}

// Retriever runs ANN retrieval over one collection.
type Retriever[T any] interface {
	Retrieve(ctx context.Context, q retrieval.Query) ([]result.Candidate[T], error)
}

// ApplicationLister lists a seeker's applications.
type ApplicationLister interface {
	ListBySeeker(ctx context.Context, seekerID string) ([]*domapp.Application, error)
}
