// Package schema owns the key layout and FT indexes of the three entity collections.
package schema

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/db"
)

// Entity kinds stored under the key prefix.
const (
	Profiles     = "profile"
	Jobs         = "job"
	Applications = "application"
)

// Indexed field aliases shared by repositories and queries.
const (
	FieldID           = "id"
	FieldStatus       = "status"
	FieldEmployerID   = "employer_id"
	FieldJobID        = "job_id"
	FieldSeekerID     = "seeker_id"
	FieldAppliedAt    = "applied_at"
	FieldUpdatedAt    = "updated_at"
	FieldSkillsVector = "skills_vector"
)

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Layout maps entity kinds to keys and index names under one prefix.
type Layout struct {
	prefix string
}

// NewLayout creates a Layout. prefix namespaces every key, e.g. "talentmatch:".
func NewLayout(prefix string) Layout {
	return Layout{prefix: prefix}
}

// KeyPrefix is the prefix of every document key of kind.
func (l Layout) KeyPrefix(kind string) string { return l.prefix + kind + ":" }

// Key is the document key of one entity.
func (l Layout) Key(kind, id string) string { return l.KeyPrefix(kind) + id }

// Index is the FT index name of kind.
func (l Layout) Index(kind string) string { return l.prefix + kind + "_idx" }

// Prefix returns the global key prefix.
func (l Layout) Prefix() string { return l.prefix }

// IDFromKey strips the kind prefix from a document key.
func (l Layout) IDFromKey(kind, key string) string {
	p := l.KeyPrefix(kind)
	if len(key) > len(p) && key[:len(p)] == p {
		return key[len(p):]
	}
	return key
}

// Definitions builds the index definitions of all collections.
// Only the skills vector is indexed; the other two are compared after retrieval.
func (l Layout) Definitions(dim int, hnsw HNSWConfig) ([]*db.IndexDefinition, error) {
	if hnsw.M <= 0 {
		hnsw.M = 16
	}
	if hnsw.EFConstruct <= 0 {
		hnsw.EFConstruct = 200
	}

	vec := db.HNSW{Dim: dim, M: hnsw.M, EFConstruction: hnsw.EFConstruct}
	builders := []*db.IndexBuilder{
		db.NewIndex(l.Index(Profiles), l.KeyPrefix(Profiles)).
			Tag("$.id", FieldID).
			Numeric("$.updated_at", FieldUpdatedAt).
			Vector("$.vectors.skills", FieldSkillsVector, vec),
		db.NewIndex(l.Index(Jobs), l.KeyPrefix(Jobs)).
			Tag("$.id", FieldID).
			Tag("$.status", FieldStatus).
			Tag("$.employer_id", FieldEmployerID).
			Numeric("$.updated_at", FieldUpdatedAt).
			Vector("$.vectors.skills", FieldSkillsVector, vec),
		db.NewIndex(l.Index(Applications), l.KeyPrefix(Applications)).
			Tag("$.job_id", FieldJobID).
			Tag("$.seeker_id", FieldSeekerID).
			Tag("$.employer_id", FieldEmployerID).
			Tag("$.status", FieldStatus).
			Numeric("$.applied_at", FieldAppliedAt),
	}

	defs := make([]*db.IndexDefinition, 0, len(builders))
	for i, b := range builders {
		def, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("build index %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// indexStore is the consumer interface for index management (ISP).
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Ensure creates missing indexes. Existing indexes are left untouched, so a
// dimension change needs a manual FT.DROPINDEX.
func Ensure(ctx context.Context, s indexStore, defs []*db.IndexDefinition, logger *zap.Logger) error {
	for _, def := range defs {
		exists, err := s.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			logger.Debug("Index exists", zap.String("index", def.Name))
			continue
		}
		if err := s.CreateIndex(ctx, def); err != nil {
			if errors.Is(err, db.ErrIndexExists) {
				continue
			}
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
		logger.Info("Index created", zap.String("index", def.Name))
	}
	return nil
}
