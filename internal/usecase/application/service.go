// Package application handles job applications and their pipeline status.
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
)

// Service handles application operations.
type Service struct {
	repo     Repository
	jobs     JobReader
	profiles ProfileReader
	now      func() time.Time
	newID    func() string
}

// New creates an application service.
func New(repo Repository, jobs JobReader, profiles ProfileReader) *Service {
	return &Service{repo: repo, jobs: jobs, profiles: profiles, now: time.Now, newID: uuid.NewString}
}

// Apply records a seeker's application to a published job.
// Uniqueness is checked before the write; two simultaneous applies may both pass.
func (s *Service) Apply(
	ctx context.Context, seekerID, jobID string, resumeURL domain.Optional[string],
) (*domapp.Application, error) {
	if strings.TrimSpace(seekerID) == "" || strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: seeker id and job id are required", domain.ErrInvalidInput)
	}

	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if !j.Published() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrJobNotPublished, jobID, j.Status)
	}
	if _, err := s.profiles.Get(ctx, seekerID); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	exists, err := s.repo.Exists(ctx, jobID, seekerID)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyApplied
	}

	now := s.now()
	a := &domapp.Application{
		ID:         s.newID(),
		JobID:      jobID,
		SeekerID:   seekerID,
		EmployerID: j.EmployerID,
		Status:     domapp.StatusApplied,
		ResumeURL:  resumeURL,
		AppliedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save application: %w", err)
	}
	return a, nil
}

// UpdateStatus moves an application to another pipeline stage.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domapp.Application, error) {
	st, err := domapp.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	a.Status = st
	a.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save application: %w", err)
	}
	return a, nil
}

// Get returns an application by ID.
func (s *Service) Get(ctx context.Context, id string) (*domapp.Application, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// ListByJob returns a job's applications, newest first.
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]*domapp.Application, error) {
	apps, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListBySeeker returns a seeker's applications, newest first.
func (s *Service) ListBySeeker(ctx context.Context, seekerID string) ([]*domapp.Application, error) {
	apps, err := s.repo.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
