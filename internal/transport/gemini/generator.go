package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

const defaultGenerationModel = "gemini-2.5-flash"

// sleep is swapped out in tests.
var sleep = time.Sleep

// GeneratorConfig holds the text generation settings.
type GeneratorConfig struct {
	Model             string
	MaxRetries        int
	RequestsPerSecond float64
	Logger            *zap.Logger
}

// Generator implements domain.TextGenerator with JSON-mode Gemini calls.
type Generator struct {
	models     modelsAPI
	model      string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewGenerator creates a Generator over the given models service.
func NewGenerator(models modelsAPI, cfg GeneratorConfig) *Generator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGenerationModel
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}
	return &Generator{
		models:     models,
		model:      model,
		maxRetries: max(0, cfg.MaxRetries),
		limiter:    limiter,
		logger:     cfg.Logger,
	}
}

// GenerateContent sends the prompt and returns the concatenated text parts.
// Temporary API errors are retried with linear backoff.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("empty prompt: %w", domain.ErrInvalidInput)
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			sleep(time.Duration(attempt) * time.Second)
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limiter: %w: %w", domain.ErrGenerationUnavailable, err)
		}

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			lastErr = err
			if isTemporary(err) && ctx.Err() == nil {
				g.logger.Warn("Gemini generation failed, retrying",
					zap.Int("attempt", attempt+1), zap.Error(err))
				continue
			}
			return "", wrapAPIError(err, domain.ErrGenerationUnavailable)
		}

		out := collectText(resp)
		if out == "" {
			return "", fmt.Errorf("empty response: %w", domain.ErrGenerationUnavailable)
		}
		return out, nil
	}

	return "", wrapAPIError(lastErr, domain.ErrGenerationUnavailable)
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String())
}
