// Package profile manages job seeker profiles.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Service handles profile operations.
type Service struct {
	repo Repository
	gen  TripleGenerator
	now  func() time.Time
}

// New creates a profile service.
func New(repo Repository, gen TripleGenerator) *Service {
	return &Service{repo: repo, gen: gen, now: time.Now}
}

// Save creates or replaces a profile. The triple is regenerated when the
// governing text changed or the stored one is incomplete. When generation
// fails the profile is stored without vectors and healed on a later read.
func (s *Service) Save(ctx context.Context, p *domprofile.Profile) (*domprofile.Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, p.ID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		prev = nil
	case err != nil:
		return nil, fmt.Errorf("get profile: %w", err)
	}

	next := *p
	next.UpdatedAt = s.now()
	next.Vectors = vector.Triple{}
	if prev != nil {
		next.LegacyVector = prev.LegacyVector
	}

	if prev != nil && prev.Vectors.Complete() && prev.Source().Hash() == next.Source().Hash() {
		next.Vectors = prev.Vectors
	} else {
		t, err := s.gen.GenerateTriple(ctx, next.Source())
		if err != nil {
			metrics.TripleBuildsTotal.WithLabelValues("profile", "error").Inc()
			logger.FromContext(ctx).Warn("Profile vectors not generated",
				zap.String("profile_id", next.ID), zap.Error(err))
		} else {
			metrics.TripleBuildsTotal.WithLabelValues("profile", "ok").Inc()
			next.Vectors = t
		}
	}

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &next, nil
}

// Get returns a profile by ID.
func (s *Service) Get(ctx context.Context, id string) (*domprofile.Profile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
