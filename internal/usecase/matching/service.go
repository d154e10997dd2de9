// Package matching serves job recommendations to seekers and ranked candidates to employers.
package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/repository/retrieval"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
	"github.com/kailas-cloud/talentmatch/internal/usecase/scoring"
)

// Defaults for result sizes.
const (
	DefaultRecommendations = 10
	DefaultCandidates      = 10
	MaxCandidates          = 50
)

// Config tunes retrieval and result sizes. Zero values take the defaults.
type Config struct {
	Recall          int
	Limit           int
	Recommendations int
	Candidates      int
	MaxCandidates   int
	// EFRuntime overrides the HNSW search breadth; 0 keeps the index default.
	EFRuntime int
}

func (c Config) withDefaults() Config {
	if c.Recall <= 0 {
		c.Recall = retrieval.DefaultRecall
	}
	if c.Limit <= 0 {
		c.Limit = min(retrieval.DefaultLimit, c.Recall)
	}
	if c.Recommendations <= 0 {
		c.Recommendations = DefaultRecommendations
	}
	if c.Candidates <= 0 {
		c.Candidates = DefaultCandidates
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = MaxCandidates
	}
	return c
}

// JobMatch is a recommended job with its score.
type JobMatch struct {
	Job    *job.Job
	Recall float64
	Match  scoring.Result
}

// CandidateMatch is a ranked profile with its score.
type CandidateMatch struct {
	Profile *profile.Profile
	Recall  float64
	Match   scoring.Result
}

// Recommendations is the seeker-facing result. Available is false when
// matching could not run; Items is then empty.
type Recommendations struct {
	Items     []JobMatch
	Available bool
}

// Candidates is the employer-facing result.
type Candidates struct {
	Items     []CandidateMatch
	Available bool
}

// Service runs the retrieve-then-rerank pipeline.
type Service struct {
	profiles     ProfileReader
	jobs         JobReader
	healer       Healer
	jobPool      Retriever[*job.Job]
	profilePool  Retriever[*profile.Profile]
	applications ApplicationLister
	cfg          Config
}

// New creates a matching service.
func New(
	profiles ProfileReader, jobs JobReader, healer Healer,
	jobPool Retriever[*job.Job], profilePool Retriever[*profile.Profile],
	applications ApplicationLister, cfg Config,
) *Service {
	return &Service{
		profiles:     profiles,
		jobs:         jobs,
		healer:       healer,
		jobPool:      jobPool,
		profilePool:  profilePool,
		applications: applications,
		cfg:          cfg.withDefaults(),
	}
}

// Recommend returns the best published jobs for a seeker, skipping jobs they applied to.
// A missing profile is an error; unavailable vectors or retrieval degrade to an empty result.
func (s *Service) Recommend(ctx context.Context, seekerID string) (Recommendations, error) {
	ctx = logger.With(ctx, zap.String("seeker_id", seekerID))
	p, err := s.profiles.Get(ctx, seekerID)
	if err != nil {
		return Recommendations{}, fmt.Errorf("get profile: %w", err)
	}

	query, err := s.healer.EnsureProfile(ctx, p)
	if err != nil {
		return Recommendations{}, degrade(ctx, "recommendations", err)
	}

	published, err := filter.Equal(schema.FieldStatus, string(job.StatusPublished))
	if err != nil {
		return Recommendations{}, fmt.Errorf("build filter: %w", err)
	}
	pool, err := s.jobPool.Retrieve(ctx, retrieval.Query{
		Vector:    query.Skills,
		Filter:    published,
		Recall:    s.cfg.Recall,
		Limit:     s.cfg.Limit,
		EFRuntime: s.cfg.EFRuntime,
	})
	if err != nil {
		return Recommendations{}, degrade(ctx, "recommendations", err)
	}

	apps, err := s.applications.ListBySeeker(ctx, seekerID)
	if err != nil {
		return Recommendations{}, fmt.Errorf("list applications: %w", err)
	}
	applied := make(map[string]struct{}, len(apps))
	for _, a := range apps {
		applied[a.JobID] = struct{}{}
	}
	pool = retrieval.Exclude(pool, func(j *job.Job) string { return j.ID }, applied)

	ranked := scoring.Top(scoring.Rerank(query, pool, jobVectors), s.cfg.Recommendations)
	items := make([]JobMatch, len(ranked))
	for i, r := range ranked {
		items[i] = JobMatch{Job: r.Entity, Recall: r.Recall, Match: r.Match}
	}
	return Recommendations{Items: items, Available: true}, nil
}

// RankCandidates returns the best profiles for a job. limit 0 takes the default,
// larger values are capped at the configured maximum.
func (s *Service) RankCandidates(ctx context.Context, jobID string, limit int) (Candidates, error) {
	if limit < 0 {
		return Candidates{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	if limit == 0 {
		limit = s.cfg.Candidates
	}
	limit = min(limit, s.cfg.MaxCandidates)

	ctx = logger.With(ctx, zap.String("job_id", jobID))
	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return Candidates{}, fmt.Errorf("get job: %w", err)
	}

	query, err := s.healer.EnsureJob(ctx, j)
	if err != nil {
		return Candidates{}, degrade(ctx, "candidates", err)
	}

	pool, err := s.profilePool.Retrieve(ctx, retrieval.Query{
		Vector:    query.Skills,
		Recall:    s.cfg.Recall,
		Limit:     max(s.cfg.Limit, limit),
		EFRuntime: s.cfg.EFRuntime,
	})
	if err != nil {
		return Candidates{}, degrade(ctx, "candidates", err)
	}

	ranked := scoring.Top(scoring.Rerank(query, pool, profileVectors), limit)
	items := make([]CandidateMatch, len(ranked))
	for i, r := range ranked {
		items[i] = CandidateMatch{Profile: r.Entity, Recall: r.Recall, Match: r.Match}
	}
	return Candidates{Items: items, Available: true}, nil
}

// degrade swallows the failures that mean "no matching right now" and passes the rest through.
func degrade(ctx context.Context, consumer string, err error) error {
	var reason string
	switch {
	case errors.Is(err, domain.ErrVectorsUnavailable):
		reason = "vectors"
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		reason = "retrieval"
	default:
		return err
	}
	metrics.DegradedResponsesTotal.WithLabelValues(consumer, reason).Inc()
	logger.FromContext(ctx).Warn("Serving degraded response",
		zap.String("consumer", consumer), zap.String("reason", reason), zap.Error(err))
	return nil
}

func jobVectors(j *job.Job) vector.Triple             { return j.Vectors }
func profileVectors(p *profile.Profile) vector.Triple { return p.Vectors }
