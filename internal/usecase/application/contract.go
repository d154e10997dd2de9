package application

import (
	"context"

	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
)

// Repository stores applications.
type Repository interface {
	Save(ctx context.Context, a *domapp.Application) error
	Get(ctx context.Context, id string) (*domapp.Application, error)
	Exists(ctx context.Context, jobID, seekerID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]*domapp.Application, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]*domapp.Application, error)
}

// JobReader reads jobs.
type JobReader interface {
	Get(ctx context.Context, id string) (*job.Job, error)
}

// ProfileReader reads profiles.
type ProfileReader interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}
