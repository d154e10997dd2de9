package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/logger"
)

// Metered adds the tokens of every successful call to the request's usage
// collector, which feeds the X-Embedding-Tokens response header. Provider
// metrics are recorded by the transports themselves.
type Metered struct {
	inner    domain.Embedder
	provider string
	model    string
	base     *zap.Logger
}

// NewMetered wraps inner. base is used when the context carries no
// request logger, as in the seeding CLI.
func NewMetered(inner domain.Embedder, provider, model string, base *zap.Logger) *Metered {
	return &Metered{inner: inner, provider: provider, model: model, base: base}
}

// Embed delegates to the wrapped embedder. Failed calls are not counted.
func (m *Metered) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	res, err := m.inner.Embed(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		m.log(ctx).Warn("Embedding failed",
			zap.Int("text_len", len(text)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)
	m.log(ctx).Debug("Embedding done",
		zap.Duration("duration", elapsed),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
		// Zero tokens means the cache answered.
		zap.Bool("billed", res.TotalTokens > 0),
	)
	return res, nil
}

func (m *Metered) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, m.base).With(zap.String("provider", m.provider), zap.String("model", m.model))
}
