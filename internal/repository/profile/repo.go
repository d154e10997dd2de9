// Package profile persists job seeker profiles as JSON documents.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMany(ctx context.Context, keys []string, path string) ([][]byte, error)
}

// Repo stores profiles under <prefix>profile:<id>.
type Repo struct {
	store  store
	layout schema.Layout
}

// New creates a profile repository.
func New(s store, layout schema.Layout) *Repo {
	return &Repo{store: s, layout: layout}
}

// Save writes the whole profile document, triple included when complete.
func (r *Repo) Save(ctx context.Context, p *domprofile.Profile) error {
	data, err := json.Marshal(toDoc(p))
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	key := r.layout.Key(schema.Profiles, p.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a profile by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domprofile.Profile, error) {
	key := r.layout.Key(schema.Profiles, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	p, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return p, nil
}

// GetMany loads the given profiles in one round trip, skipping IDs that
// do not exist. Duplicate IDs are fetched once.
func (r *Repo) GetMany(ctx context.Context, ids []string) (map[string]*domprofile.Profile, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	keys := make([]string, len(unique))
	for i, id := range unique {
		keys[i] = r.layout.Key(schema.Profiles, id)
	}
	raws, err := r.store.JSONGetMany(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.get %d profiles: %w", len(keys), err)
	}

	out := make(map[string]*domprofile.Profile, len(unique))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		p, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", unique[i], err)
		}
		out[unique[i]] = p
	}
	return out, nil
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
	key := r.layout.Key(schema.Profiles, id)
	if err := r.store.JSONSet(ctx, key, schema.VectorsPath, data); err != nil {
		return fmt.Errorf("json.set %s %s: %w", key, schema.VectorsPath, err)
	}
	return nil
}
