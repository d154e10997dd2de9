package seed

import (
	"context"

	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// TripleGenerator builds a triple from source text.
type TripleGenerator interface {
	GenerateTriple(ctx context.Context, src vector.Source) (vector.Triple, error)
}

// ProfileSaver stores whole profiles.
type ProfileSaver interface {
	Save(ctx context.Context, p *profile.Profile) error
}

// JobSaver stores whole jobs.
type JobSaver interface {
	Save(ctx context.Context, j *job.Job) error
}
