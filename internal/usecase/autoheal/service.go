// Package autoheal makes sure an entity has a complete vector triple before it
// is matched, generating and persisting one on demand.
package autoheal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Service heals profiles and jobs. Concurrent heals of the same entity may
// both generate; the single-write persist makes the last one win intact.
type Service struct {
	gen      TripleGenerator
	profiles VectorStore
	jobs     VectorStore
	logger   *zap.Logger
}

// New creates an auto-heal Service.
func New(gen TripleGenerator, profiles, jobs VectorStore, logger *zap.Logger) *Service {
	return &Service{gen: gen, profiles: profiles, jobs: jobs, logger: logger}
}

// EnsureProfile returns p's triple, generating and storing it when absent or incomplete.
// On success p.Vectors holds the returned triple.
func (s *Service) EnsureProfile(ctx context.Context, p *profile.Profile) (vector.Triple, error) {
	t, err := s.ensure(ctx, "profile", p.ID, p.Vectors, p.Source, s.profiles)
	if err != nil {
		return vector.Triple{}, err
	}
	p.Vectors = t
	return t, nil
}

// EnsureJob is EnsureProfile for jobs.
func (s *Service) EnsureJob(ctx context.Context, j *job.Job) (vector.Triple, error) {
	t, err := s.ensure(ctx, "job", j.ID, j.Vectors, j.Source, s.jobs)
	if err != nil {
		return vector.Triple{}, err
	}
	j.Vectors = t
	return t, nil
}

func (s *Service) ensure(
	ctx context.Context, entity, id string, current vector.Triple,
	source func() vector.Source, store VectorStore,
) (vector.Triple, error) {
	if current.Complete() {
		metrics.AutoHealTotal.WithLabelValues(entity, "cached").Inc()
		return current, nil
	}

	log := logger.FromContextOr(ctx, s.logger).With(zap.String("entity", entity), zap.String("id", id))

	t, err := s.gen.GenerateTriple(ctx, source())
	if err != nil {
		metrics.AutoHealTotal.WithLabelValues(entity, "failed").Inc()
		metrics.TripleBuildsTotal.WithLabelValues(entity, "error").Inc()
		log.Warn("Auto-heal generation failed", zap.Error(err))
		return vector.Triple{}, fmt.Errorf("%w: %s %s: %w", domain.ErrVectorsUnavailable, entity, id, err)
	}
	metrics.TripleBuildsTotal.WithLabelValues(entity, "ok").Inc()

	if err := store.SetVectors(ctx, id, t); err != nil {
		// the fresh triple still serves this request; the next read heals again
		metrics.AutoHealTotal.WithLabelValues(entity, "persist_failed").Inc()
		log.Error("Auto-heal persist failed", zap.Error(err))
		return t, nil
	}

	metrics.AutoHealTotal.WithLabelValues(entity, "healed").Inc()
	log.Info("Vectors healed")
	return t, nil
}
