package skillgap

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// ProfileReader reads job seeker profiles.
type ProfileReader interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// JobReader reads jobs.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
}

// Healer guarantees both triples of the pair.
type Healer interface {
	EnsureProfile(ctx context.Context, p *profile.Profile) (vector.Triple, error)
	EnsureJob(ctx context.Context, j *job.Job) (vector.Triple, error)
}
