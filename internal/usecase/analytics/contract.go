package analytics

import (
	"context"

	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// JobRepository reads jobs and counts them per employer.
type JobRepository interface {
	Get(ctx context.Context, id string) (*job.Job, error)
	CountByEmployer(ctx context.Context, employerID string, status job.Status) (int, error)
}

// ApplicationRepository lists and counts applications.
type ApplicationRepository interface {
	ListByJob(ctx context.Context, jobID string) ([]*domapp.Application, error)
	ListByEmployer(ctx context.Context, employerID string, limit int) ([]*domapp.Application, error)
	CountByEmployer(ctx context.Context, employerID string, status domapp.Status) (int, error)
}

// ProfileBatchReader loads several profiles at once. Missing ids are absent from the map.
type ProfileBatchReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]*profile.Profile, error)
}

// JobHealer guarantees a job triple.
type JobHealer interface {
	EnsureJob(ctx context.Context, j *job.Job) (vector.Triple, error)
}
