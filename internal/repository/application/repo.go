// Package application persists job applications as JSON documents.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
)

const maxList = 1000

// store is the consumer interface for applications (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error)
}

type applicationDoc struct {
	ID         string  `json:"id"`
	JobID      string  `json:"job_id"`
	SeekerID   string  `json:"seeker_id"`
	EmployerID string  `json:"employer_id"`
	Status     string  `json:"status"`
	ResumeURL  *string `json:"resume_url,omitempty"`
	AppliedAt  int64   `json:"applied_at"`
	UpdatedAt  int64   `json:"updated_at"`
}

// Repo stores applications under <prefix>application:<id>.
type Repo struct {
	store  store
	layout schema.Layout
}

// New creates an application repository.
func New(s store, layout schema.Layout) *Repo {
	return &Repo{store: s, layout: layout}
}

// Save writes the whole application document.
func (r *Repo) Save(ctx context.Context, a *domapp.Application) error {
	data, err := json.Marshal(applicationDoc{
		ID:         a.ID,
		JobID:      a.JobID,
		SeekerID:   a.SeekerID,
		EmployerID: a.EmployerID,
		Status:     string(a.Status),
		ResumeURL:  a.ResumeURL.Ptr(),
		AppliedAt:  schema.Millis(a.AppliedAt),
		UpdatedAt:  schema.Millis(a.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	key := r.layout.Key(schema.Applications, a.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns an application by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domapp.Application, error) {
	key := r.layout.Key(schema.Applications, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decode(raw)
}

// Exists reports whether the seeker already applied to the job.
func (r *Repo) Exists(ctx context.Context, jobID, seekerID string) (bool, error) {
	f, err := filter.Equal(schema.FieldJobID, jobID, schema.FieldSeekerID, seekerID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	n, err := r.store.SearchCount(ctx, r.layout.Index(schema.Applications), f)
	if err != nil {
		return false, fmt.Errorf("count applications: %w", err)
	}
	return n > 0, nil
}

// ListByJob returns the job's applications, newest first.
func (r *Repo) ListByJob(ctx context.Context, jobID string) ([]*domapp.Application, error) {
	return r.list(ctx, maxList, schema.FieldJobID, jobID)
}

// ListBySeeker returns the seeker's applications, newest first.
func (r *Repo) ListBySeeker(ctx context.Context, seekerID string) ([]*domapp.Application, error) {
	return r.list(ctx, maxList, schema.FieldSeekerID, seekerID)
}

// ListByEmployer returns up to limit applications to the employer's jobs, newest first.
func (r *Repo) ListByEmployer(ctx context.Context, employerID string, limit int) ([]*domapp.Application, error) {
	if limit <= 0 || limit > maxList {
		limit = maxList
	}
	return r.list(ctx, limit, schema.FieldEmployerID, employerID)
}

// CountByEmployer counts applications to the employer's jobs, optionally in one status.
func (r *Repo) CountByEmployer(ctx context.Context, employerID string, status domapp.Status) (int, error) {
	kv := []string{schema.FieldEmployerID, employerID}
	if status != "" {
		kv = append(kv, schema.FieldStatus, string(status))
	}
	f, err := filter.Equal(kv...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	n, err := r.store.SearchCount(ctx, r.layout.Index(schema.Applications), f)
	if err != nil {
		return 0, fmt.Errorf("count applications of employer %s: %w", employerID, err)
	}
	return n, nil
}

func (r *Repo) list(ctx context.Context, limit int, key, value string) ([]*domapp.Application, error) {
	f, err := filter.Equal(key, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	res, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.layout.Index(schema.Applications),
		Filters:      f,
		Limit:        limit,
		SortBy:       schema.FieldAppliedAt,
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("list applications by %s: %w", key, err)
	}

	out := make([]*domapp.Application, 0, len(res.Entries))
	for _, e := range res.Entries {
		a, err := decode([]byte(e.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func decode(raw []byte) (*domapp.Application, error) {
	var d applicationDoc
	if err := schema.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &domapp.Application{
		ID:         d.ID,
		JobID:      d.JobID,
		SeekerID:   d.SeekerID,
		EmployerID: d.EmployerID,
		Status:     domapp.Status(d.Status),
		ResumeURL:  domain.FromPtr(d.ResumeURL),
		AppliedAt:  schema.FromMillis(d.AppliedAt),
		UpdatedAt:  schema.FromMillis(d.UpdatedAt),
	}, nil
}
