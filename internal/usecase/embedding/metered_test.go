package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/logger"
)

func TestMetered_AccumulatesUsage(t *testing.T) {
	inner := &mockEmbedder{}
	m := NewMetered(inner, "test", "test-model", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	for range 3 {
		if _, err := m.Embed(ctx, "Go"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if usage.TotalTokens() != 9 || usage.Calls() != 3 {
		t.Errorf("usage = %d tokens / %d calls", usage.TotalTokens(), usage.Calls())
	}
}

func TestMetered_CacheHitCountsCallWithoutTokens(t *testing.T) {
	inner := &mockEmbedder{fn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{Embedding: []float32{1}}, nil
	}}
	m := NewMetered(inner, "test", "test-model", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := m.Embed(ctx, "Go"); err != nil {
		t.Fatal(err)
	}
	if usage.TotalTokens() != 0 || usage.Calls() != 1 {
		t.Errorf("usage = %d tokens / %d calls", usage.TotalTokens(), usage.Calls())
	}
}

func TestMetered_NoCollector(t *testing.T) {
	m := NewMetered(&mockEmbedder{}, "test", "test-model", zap.NewNop())
	if _, err := m.Embed(context.Background(), "Go"); err != nil {
		t.Fatalf("a context without a collector must still embed: %v", err)
	}
}

func TestMetered_ErrorLogsToRequestLogger(t *testing.T) {
	inner := &mockEmbedder{fn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}}
	baseCore, baseLogs := observer.New(zap.DebugLevel)
	m := NewMetered(inner, "openai", "m1", zap.New(baseCore))

	reqCore, reqLogs := observer.New(zap.DebugLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(reqCore))
	ctx, usage := domain.NewContextWithUsage(ctx)

	_, err := m.Embed(ctx, "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if usage.Calls() != 0 {
		t.Errorf("failed call must not be counted, got %d", usage.Calls())
	}
	if reqLogs.FilterMessage("Embedding failed").Len() != 1 {
		t.Errorf("request logs = %v", reqLogs.All())
	}
	if baseLogs.Len() != 0 {
		t.Errorf("base logger used while a request logger was present: %v", baseLogs.All())
	}
	entry := reqLogs.All()[0].ContextMap()
	if entry["provider"] != "openai" || entry["model"] != "m1" {
		t.Errorf("fields = %v", entry)
	}
}

func TestMetered_FallsBackToBaseLogger(t *testing.T) {
	inner := &mockEmbedder{fn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, errors.New("boom")
	}}
	core, logs := observer.New(zap.WarnLevel)
	m := NewMetered(inner, "gemini", "m2", zap.New(core))

	if _, err := m.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if logs.FilterMessage("Embedding failed").Len() != 1 {
		t.Errorf("logs = %v", logs.All())
	}
}
