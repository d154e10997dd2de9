// Package job manages job postings and keeps their vectors in step with their text.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Service handles job lifecycle operations.
type Service struct {
	repo Repository
	gen  TripleGenerator
	now  func() time.Time
}

// New creates a job service.
func New(repo Repository, gen TripleGenerator) *Service {
	return &Service{repo: repo, gen: gen, now: time.Now}
}

// Save creates or updates a job. Vectors are regenerated when the job is
// published for the first time or a published job's text changed; otherwise
// the stored triple is kept. A failed regeneration stores the job without vectors.
func (s *Service) Save(ctx context.Context, j *domjob.Job) (*domjob.Job, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, j.ID)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		prev = nil
	case err != nil:
		return nil, fmt.Errorf("get job: %w", err)
	}

	now := s.now()
	next := *j
	next.UpdatedAt = now
	next.CreatedAt = now
	next.Vectors = vector.Triple{}
	if prev != nil {
		next.CreatedAt = prev.CreatedAt
		next.LegacyVector = prev.LegacyVector
	}

	if domjob.NeedsEmbedding(prev, &next) {
		t, err := s.gen.GenerateTriple(ctx, next.Source())
		if err != nil {
			metrics.TripleBuildsTotal.WithLabelValues("job", "error").Inc()
			logger.FromContext(ctx).Warn("Job vectors not regenerated, clearing stale triple",
				zap.String("job_id", next.ID), zap.Error(err))
		} else {
			metrics.TripleBuildsTotal.WithLabelValues("job", "ok").Inc()
			next.Vectors = t
		}
	} else if prev != nil {
		next.Vectors = prev.Vectors
	}

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	return &next, nil
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, id string) (*domjob.Job, error) {
	j, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// ListByEmployer returns an employer's jobs.
func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]*domjob.Job, error) {
	jobs, err := s.repo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
