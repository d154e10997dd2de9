// Package embedding turns source text into vectors and vector triples.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Generator produces vectors from text. Every failure it returns wraps
// domain.ErrEmbeddingUnavailable, so callers can degrade with a single check.
type Generator struct {
	embedder domain.Embedder
	dim      int
	logger   *zap.Logger
}

// NewGenerator creates a Generator. dim is the expected vector length; 0 accepts any.
func NewGenerator(embedder domain.Embedder, dim int, logger *zap.Logger) *Generator {
	return &Generator{embedder: embedder, dim: dim, logger: logger}
}

// Generate embeds one text. Blank input is rejected without a provider call.
func (g *Generator) Generate(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrEmbeddingUnavailable)
	}

	res, err := g.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	switch {
	case len(res.Embedding) == 0:
		return nil, fmt.Errorf("empty vector: %w", domain.ErrEmbeddingUnavailable)
	case g.dim > 0 && len(res.Embedding) != g.dim:
		return nil, fmt.Errorf("%w: %w: got %d, want %d",
			domain.ErrEmbeddingUnavailable, domain.ErrDimensionMismatch, len(res.Embedding), g.dim)
	}
	return res.Embedding, nil
}

// embed shields callers from a panicking provider client.
func (g *Generator) embed(ctx context.Context, text string) (res domain.EmbeddingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Embedder panicked", zap.Any("panic", r))
			err = fmt.Errorf("embedder panic: %v", r)
		}
	}()
	return g.embedder.Embed(ctx, text)
}

// GenerateTriple embeds the three texts of src concurrently. The group waits for
// all three calls; any failure discards the partial results.
func (g *Generator) GenerateTriple(ctx context.Context, src vector.Source) (vector.Triple, error) {
	var (
		vecs [len(vector.Kinds)][]float32
		eg   errgroup.Group
	)
	for i, k := range vector.Kinds {
		eg.Go(func() error {
			v, err := g.Generate(ctx, src.Get(k))
			if err != nil {
				return fmt.Errorf("%s vector: %w", k, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.logger.Warn("Triple generation failed", zap.Error(err))
		return vector.Triple{}, err
	}

	t := vector.Triple{Skills: vecs[0], Experience: vecs[1], Role: vecs[2]}
	if err := t.Validate(); err != nil {
		return vector.Triple{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return t, nil
}
