// Package retrieval finds candidate entities by approximate nearest neighbour
// search over the skills vector index.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
	"github.com/kailas-cloud/talentmatch/internal/domain/result"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// Defaults for the candidate pool.
const (
	DefaultRecall = 100
	DefaultLimit  = 50
)

// searcher is the consumer interface for retrieval (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Query describes one retrieval. Recall is how many neighbours the index ranks,
// Limit how many of them are returned. Zero values take the defaults.
type Query struct {
	Vector    []float32
	Filter    filter.Expression
	Recall    int
	Limit     int
	EFRuntime int
}

// Collection retrieves entities of one kind.
type Collection[T any] struct {
	store  searcher
	name   string
	index  string
	field  string
	decode func(raw []byte) (T, error)
	logger *zap.Logger
}

// NewCollection creates a retriever over index. field is the vector alias,
// decode parses one stored document.
func NewCollection[T any](
	s searcher, name, index, field string,
	decode func(raw []byte) (T, error), logger *zap.Logger,
) *Collection[T] {
	return &Collection[T]{store: s, name: name, index: index, field: field, decode: decode, logger: logger}
}

// Retrieve runs the ANN query and returns candidates ordered by recall score.
// Every store failure, a missing index included, is reported as domain.ErrRetrievalUnavailable.
func (c *Collection[T]) Retrieve(ctx context.Context, q Query) ([]result.Candidate[T], error) {
	recall, limit := q.Recall, q.Limit
	if recall <= 0 {
		recall = DefaultRecall
	}
	if limit <= 0 {
		limit = min(DefaultLimit, recall)
	}
	if limit > recall {
		return nil, fmt.Errorf("%w: limit %d exceeds recall %d", domain.ErrInvalidInput, limit, recall)
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}

	start := time.Now()
	res, err := c.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    c.index,
		VectorField:  c.field,
		Filters:      q.Filter,
		Vector:       q.Vector,
		K:            recall,
		Limit:        limit,
		EFRuntime:    q.EFRuntime,
		ReturnFields: []string{"$"},
	})
	metrics.RetrievalDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			c.logger.Error("Retrieval index missing", zap.String("index", c.index))
		} else {
			c.logger.Error("Retrieval failed", zap.String("index", c.index), zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRetrievalUnavailable, c.name, err)
	}

	out := make([]result.Candidate[T], 0, len(res.Entries))
	for _, e := range res.Entries {
		if len(out) == limit {
			break
		}
		entity, err := c.decode([]byte(e.Fields["$"]))
		if err != nil {
			c.logger.Warn("Skipping undecodable candidate", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		out = append(out, result.Candidate[T]{Entity: entity, Score: e.Score})
	}
	metrics.CandidatePoolSize.WithLabelValues(c.name).Observe(float64(len(out)))
	return out, nil
}

// Exclude drops candidates whose id is in skip, keeping order.
func Exclude[T any](pool []result.Candidate[T], id func(T) string, skip map[string]struct{}) []result.Candidate[T] {
	if len(skip) == 0 {
		return pool
	}
	out := pool[:0:0]
	for _, c := range pool {
		if _, ok := skip[id(c.Entity)]; !ok {
			out = append(out, c)
		}
	}
	return out
}
