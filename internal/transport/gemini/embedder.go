package gemini

import (
	"cmp"
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

const (
	providerName          = "gemini"
	defaultEmbeddingModel = "text-embedding-004"
	taskTypeSimilarity    = "SEMANTIC_SIMILARITY"
)

// EmbedderConfig holds the Gemini embedding settings.
type EmbedderConfig struct {
	Model      string
	Dimensions int
	// RequestsPerSecond caps outgoing calls; 0 disables the limiter.
	RequestsPerSecond float64
	Logger            *zap.Logger
}

// Embedder implements domain.Embedder on top of the Gemini embedContent endpoint.
type Embedder struct {
	models     modelsAPI
	model      string
	dimensions int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewEmbedder creates a Gemini embedder over the given models service.
func NewEmbedder(models modelsAPI, cfg EmbedderConfig) *Embedder {
	model := cfg.Model
	if model == "" {
		model = defaultEmbeddingModel
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}
	return &Embedder{
		models:     models,
		model:      model,
		dimensions: cfg.Dimensions,
		limiter:    limiter,
		logger:     cmp.Or(cfg.Logger, zap.NewNop()),
	}
}

// Embed implements domain.Embedder. Gemini does not report token usage for embeddings.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		metrics.EmbeddingThrottled(providerName, e.model)
		return domain.EmbeddingResult{}, fmt.Errorf("wait for rate limiter: %w: %w", domain.ErrRateLimited, err)
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskTypeSimilarity}
	if e.dimensions > 0 {
		dim := int32(e.dimensions) //nolint:gosec // configured dimension fits int32
		cfg.OutputDimensionality = &dim
	}

	call := metrics.StartEmbeddingCall(providerName, e.model)
	resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), cfg)
	if err != nil {
		call.Failed(metrics.ErrorAPI)
		e.logger.Warn("Gemini embedding failed", zap.String("model", e.model), zap.Error(err))
		return domain.EmbeddingResult{}, wrapAPIError(err, domain.ErrEmbeddingProviderError)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		call.Failed(metrics.ErrorEmptyResponse)
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	call.Succeeded(0, 0)

	return domain.EmbeddingResult{Embedding: resp.Embeddings[0].Values}, nil
}

// HealthCheck embeds a fixed probe string.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.Embed(ctx, "health"); err != nil {
		return fmt.Errorf("gemini embed probe: %w", err)
	}
	return nil
}
