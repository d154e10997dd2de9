package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the aggregate verdict of a Report.
type Status string

const (
	// Healthy means every probe passed.
	Healthy Status = "ok"
	// Degraded means requests are served but matching may come back empty.
	Degraded Status = "degraded"
	// Unhealthy means the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one probe.
type CheckResult string

const (
	CheckOK      CheckResult = "ok"
	CheckError   CheckResult = "error"
	CheckMissing CheckResult = "missing"
)

const (
	checkDatabase  = "database"
	checkEmbedding = "embedding"
	indexPrefix    = "index:"

	defaultProbeTimeout = 2 * time.Second
)

// Report is the result of Check. Checks is keyed by probe name; indexes
// appear as "index:<name>".
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the health probes.
type Service struct {
	store        Pinger
	indexes      IndexProber
	indexNames   []string
	embedding    Prober
	probeTimeout time.Duration
}

// New creates a Service. indexes and embedding may be nil, in which case
// their probes are skipped.
func New(store Pinger, indexes IndexProber, indexNames []string, embedding Prober) *Service {
	return &Service{
		store:        store,
		indexes:      indexes,
		indexNames:   indexNames,
		embedding:    embedding,
		probeTimeout: defaultProbeTimeout,
	}
}

// Check pings the store first; when it is down nothing else is probed.
// The remaining probes run concurrently, each under its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	if err := s.probe(ctx, s.store.Ping); err != nil {
		return Report{Status: Unhealthy, Checks: map[string]CheckResult{checkDatabase: CheckError}}
	}

	var mu sync.Mutex
	checks := map[string]CheckResult{checkDatabase: CheckOK}
	record := func(name string, r CheckResult) {
		mu.Lock()
		checks[name] = r
		mu.Unlock()
	}

	// Probes report through record and never fail the group.
	var g errgroup.Group
	if s.indexes != nil {
		for _, name := range s.indexNames {
			g.Go(func() error {
				record(indexPrefix+name, s.indexResult(ctx, name))
				return nil
			})
		}
	}
	if s.embedding != nil {
		g.Go(func() error {
			record(checkEmbedding, result(s.probe(ctx, s.embedding.HealthCheck)))
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, r := range checks {
		if r != CheckOK {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) indexResult(ctx context.Context, name string) CheckResult {
	var exists bool
	err := s.probe(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.indexes.IndexExists(ctx, name)
		return err
	})
	switch {
	case err != nil:
		return CheckError
	case !exists:
		return CheckMissing
	default:
		return CheckOK
	}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()
	return fn(ctx)
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
