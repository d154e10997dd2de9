// Package seed bulk-loads profiles and jobs, embedding them in small timed batches.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dombatch "github.com/kailas-cloud/talentmatch/internal/domain/batch"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Defaults for batching.
const (
	DefaultBatchSize  = 5
	DefaultBatchDelay = 200 * time.Millisecond
)

// Config tunes a run. Zero values take the defaults.
type Config struct {
	BatchSize  int
	BatchDelay time.Duration
	CacheSize  int
}

// Service seeds a dataset.
type Service struct {
	gen      TripleGenerator
	profiles ProfileSaver
	jobs     JobSaver
	cfg      Config
	logger   *zap.Logger
}

// New creates a seed service.
func New(gen TripleGenerator, profiles ProfileSaver, jobs JobSaver, cfg Config, logger *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	return &Service{gen: gen, profiles: profiles, jobs: jobs, cfg: cfg, logger: logger}
}

// task seeds one entity; it reports whether its triple came from the cache.
type task struct {
	item dombatch.Item
	run  func(ctx context.Context, cache *tripleCache) (bool, error)
}

// Run seeds every profile, then every job. Items of a batch run concurrently,
// batches run one after another with BatchDelay between them. Cancellation is
// honoured between batches; the report covers the batches that ran.
func (s *Service) Run(ctx context.Context, ds *Dataset) (*dombatch.Report, error) {
	cache := newTripleCache(s.cfg.CacheSize)
	tasks := s.tasks(ds)
	rep := &dombatch.Report{}

	for start := 0; start < len(tasks); start += s.cfg.BatchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return rep, fmt.Errorf("seed interrupted after %d items: %w", start, ctx.Err())
			case <-time.After(s.cfg.BatchDelay):
			}
		} else if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("seed interrupted: %w", err)
		}

		batch := tasks[start:min(start+s.cfg.BatchSize, len(tasks))]
		results := make([]dombatch.Result, len(batch))

		var g errgroup.Group
		for i, t := range batch {
			g.Go(func() error {
				hit, err := t.run(ctx, cache)
				if err != nil {
					results[i] = dombatch.NewFailed(t.item, err)
					return nil
				}
				results[i] = dombatch.NewOK(t.item, hit)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			if r.Err() != nil {
				s.logger.Warn("Seed item failed",
					zap.String("kind", r.Item().Kind), zap.String("id", r.Item().ID), zap.Error(r.Err()))
			}
			rep.Add(r)
		}
		s.logger.Info("Seed batch done",
			zap.Int("done", start+len(batch)), zap.Int("total", len(tasks)))
	}

	s.logger.Info("Seed finished",
		zap.Int("processed", rep.Processed),
		zap.Int("failed", rep.Failed),
		zap.Int("cache_hits", rep.CacheHits),
		zap.Int("cached_triples", cache.len()),
	)
	return rep, nil
}

func (s *Service) tasks(ds *Dataset) []task {
	out := make([]task, 0, len(ds.Profiles)+len(ds.Jobs))
	for _, p := range ds.Profiles {
		out = append(out, task{
			item: dombatch.Item{Kind: "profile", ID: p.ID},
			run: func(ctx context.Context, cache *tripleCache) (bool, error) {
				t, hit, embedErr := s.triple(ctx, "profile", p.Source(), cache)
				p.Vectors = t
				if err := s.profiles.Save(ctx, p); err != nil {
					return false, fmt.Errorf("save profile: %w", err)
				}
				return hit, embedErr
			},
		})
	}
	for _, j := range ds.Jobs {
		out = append(out, task{
			item: dombatch.Item{Kind: "job", ID: j.ID},
			run: func(ctx context.Context, cache *tripleCache) (bool, error) {
				// drafts are embedded when they are published
				var (
					hit      bool
					embedErr error
				)
				if j.Published() {
					j.Vectors, hit, embedErr = s.triple(ctx, "job", j.Source(), cache)
				}
				if err := s.jobs.Save(ctx, j); err != nil {
					return false, fmt.Errorf("save job: %w", err)
				}
				return hit, embedErr
			},
		})
	}
	return out
}

// triple returns the cached triple for src or generates one. Entities whose
// generation fails are still saved without vectors and healed on first read.
func (s *Service) triple(
	ctx context.Context, entity string, src vector.Source, cache *tripleCache,
) (vector.Triple, bool, error) {
	t, cached, err := cache.load(src.Hash(), func() (vector.Triple, error) {
		t, err := s.gen.GenerateTriple(ctx, src)
		if err != nil {
			metrics.TripleBuildsTotal.WithLabelValues(entity, "error").Inc()
			return vector.Triple{}, err
		}
		metrics.TripleBuildsTotal.WithLabelValues(entity, "ok").Inc()
		return t, nil
	})
	if err != nil {
		return vector.Triple{}, false, fmt.Errorf("generate vectors: %w", err)
	}
	if cached {
		metrics.TripleBuildsTotal.WithLabelValues(entity, "cached").Inc()
	}
	return t, cached, nil
}
