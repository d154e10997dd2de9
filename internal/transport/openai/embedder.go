// Package openai embeds text through any OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

// sleep is swapped out in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	// Provider labels metrics and logs, e.g. "openai" or "nebius".
	Provider string
	// RequestsPerSecond caps outgoing calls; 0 disables the limiter.
	RequestsPerSecond float64
	// Timeout bounds a single attempt; 0 leaves it to the caller's context.
	Timeout time.Duration
	// MaxRetries is how many times a 429 or 5xx answer is retried.
	MaxRetries int
	Logger     *zap.Logger
}

// Embedder calls the /embeddings endpoint one text at a time.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewEmbedder creates an embedder. A BaseURL points it at a compatible
// provider instead of api.openai.com.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   cfg.Provider,
		timeout:    cfg.Timeout,
		maxRetries: max(0, cfg.MaxRetries),
		limiter:    limiter,
		logger:     cfg.Logger,
	}
}

// Embed returns the vector and token usage for text. Retryable answers are
// retried with exponential backoff; each attempt waits on the rate limiter.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
		Dimensions:     e.dimensions,
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff(attempt)); err != nil {
				break
			}
		}
		if err := e.limiter.Wait(ctx); err != nil {
			metrics.EmbeddingThrottled(e.provider, string(e.model))
			return domain.EmbeddingResult{}, fmt.Errorf("wait for rate limiter: %w: %w", domain.ErrRateLimited, err)
		}

		res, err := e.attempt(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return domain.EmbeddingResult{}, err
		}
		e.logger.Warn("Embedding request failed, retrying",
			zap.String("provider", e.provider),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return domain.EmbeddingResult{}, lastErr
}

func (e *Embedder) attempt(ctx context.Context, req openai.EmbeddingRequest) (domain.EmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	call := metrics.StartEmbeddingCall(e.provider, string(e.model))
	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		call.Failed(metrics.ErrorAPI)
		return domain.EmbeddingResult{}, classifyError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		call.Failed(metrics.ErrorEmptyResponse)
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}
	call.Succeeded(resp.Usage.PromptTokens, resp.Usage.TotalTokens)

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck lists models, which costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// backoff is 250ms, 500ms, 1s, ... capped at 4s.
func backoff(attempt int) time.Duration {
	return min(250*time.Millisecond<<min(attempt-1, 4), 4*time.Second)
}
