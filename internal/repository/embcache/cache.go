// Package embcache caches provider embeddings in the key-value store so that
// re-saving an unchanged profile or job does not pay for new tokens.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Values of the "result" label.
const (
	resultHit    = "hit"
	resultMiss   = "miss"
	resultShared = "shared"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options scope cache entries. Model and Dim are part of the key, so a
// config change never serves vectors from another embedding space.
type Options struct {
	KeyPrefix string
	Model     string
	Dim       int
	TTL       time.Duration
}

// Embedder wraps a provider with a read-through cache. Concurrent misses
// for the same text share one provider call.
type Embedder struct {
	inner   domain.Embedder
	store   store
	prefix  string
	dim     int
	ttl     time.Duration
	results *prometheus.CounterVec
	logger  *zap.Logger
	flight  singleflight.Group
}

// New wraps inner. results may be nil; otherwise it must have a single
// "result" label.
func New(inner domain.Embedder, s store, opts Options, results *prometheus.CounterVec, logger *zap.Logger) *Embedder {
	return &Embedder{
		inner:   inner,
		store:   s,
		prefix:  opts.KeyPrefix + "emb:" + opts.Model + ":" + strconv.Itoa(opts.Dim) + ":",
		dim:     opts.Dim,
		ttl:     opts.TTL,
		results: results,
		logger:  logger,
	}
}

// Embed returns the cached vector for text, or embeds and caches it.
// Hits and shared calls report zero tokens since nothing new was billed.
// Store failures only cost the cache; they never fail the call.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := e.key(text)
	if v, ok := e.lookup(ctx, key); ok {
		e.count(resultHit)
		return domain.EmbeddingResult{Embedding: v}, nil
	}

	// Only the caller whose closure ran paid for the tokens.
	led := false
	res, err, _ := e.flight.Do(key, func() (any, error) {
		led = true
		r, err := e.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		e.save(ctx, key, r.Embedding)
		return r, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	r, _ := res.(domain.EmbeddingResult)
	if !led {
		e.count(resultShared)
		return domain.EmbeddingResult{Embedding: r.Embedding}, nil
	}
	e.count(resultMiss)
	return r, nil
}

func (e *Embedder) key(text string) string {
	h := sha256.Sum256([]byte(text))
	return e.prefix + hex.EncodeToString(h[:])
}

func (e *Embedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	data, err := e.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		e.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	v, err := decodeEntry(data, e.dim)
	if err != nil {
		e.logger.Warn("Discarding embedding cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return v, true
}

func (e *Embedder) save(ctx context.Context, key string, v []float32) {
	data, err := encodeEntry(v)
	if err != nil {
		return
	}
	if err := e.store.SetWithTTL(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (e *Embedder) count(result string) {
	if e.results != nil {
		e.results.WithLabelValues(result).Inc()
	}
}
