// Package job persists job postings as JSON documents.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
)

// maxList bounds list queries; FT.SEARCH caps results at 10000 by default.
const maxList = 1000

// store is the consumer interface for jobs (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error)
}

// Repo stores jobs under <prefix>job:<id>.
type Repo struct {
	store  store
	layout schema.Layout
}

// New creates a job repository.
func New(s store, layout schema.Layout) *Repo {
	return &Repo{store: s, layout: layout}
}

// Save writes the whole job document. A job saved without a complete triple
// has no vectors subtree and drops out of ANN results until healed.
func (r *Repo) Save(ctx context.Context, j *domjob.Job) error {
	data, err := json.Marshal(toDoc(j))
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	key := r.layout.Key(schema.Jobs, j.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a job by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domjob.Job, error) {
	key := r.layout.Key(schema.Jobs, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	j, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return j, nil
}

// SetVectors replaces the stored triple in a single JSON.SET.
func (r *Repo) SetVectors(ctx context.Context, id string, t vector.Triple) error {
	v := schema.VectorsFrom(t)
	if v == nil {
		return domain.ErrIncompleteTriple
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal vectors: %w", err)
	}
	key := r.layout.Key(schema.Jobs, id)
	if err := r.store.JSONSet(ctx, key, schema.VectorsPath, data); err != nil {
		return fmt.Errorf("json.set %s %s: %w", key, schema.VectorsPath, err)
	}
	return nil
}

// ListByEmployer returns the employer's jobs, most recently updated first.
func (r *Repo) ListByEmployer(ctx context.Context, employerID string) ([]*domjob.Job, error) {
	f, err := filter.Equal(schema.FieldEmployerID, employerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	res, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.layout.Index(schema.Jobs),
		Filters:      f,
		Limit:        maxList,
		SortBy:       schema.FieldUpdatedAt,
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs of employer %s: %w", employerID, err)
	}

	jobs := make([]*domjob.Job, 0, len(res.Entries))
	for _, e := range res.Entries {
		j, err := Decode([]byte(e.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// CountByEmployer counts the employer's jobs in the given status.
func (r *Repo) CountByEmployer(ctx context.Context, employerID string, status domjob.Status) (int, error) {
	f, err := filter.Equal(schema.FieldEmployerID, employerID, schema.FieldStatus, string(status))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	n, err := r.store.SearchCount(ctx, r.layout.Index(schema.Jobs), f)
	if err != nil {
		return 0, fmt.Errorf("count jobs of employer %s: %w", employerID, err)
	}
	return n, nil
}
