package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func writeEmbedding(w http.ResponseWriter, vec []float32, tokens int) {
	resp := embeddingResponse{Object: "list", Model: "m", Data: []embeddingItem{{Object: "embedding", Embedding: vec}}}
	resp.Usage.PromptTokens = tokens
	resp.Usage.TotalTokens = tokens
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newTestEmbedder(url string, mutate ...func(*Config)) *Embedder {
	cfg := &Config{APIKey: "test-key", BaseURL: url, Model: "m", Provider: "test", Logger: zap.NewNop()}
	for _, f := range mutate {
		f(cfg)
	}
	return NewEmbedder(cfg)
}

func TestEmbed_Success(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeEmbedding(w, want, 42)
	}))
	defer srv.Close()

	emb := newTestEmbedder(srv.URL, func(c *Config) { c.Dimensions = 4 })
	res, err := emb.Embed(context.Background(), "Go, Redis, Kubernetes")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(res.Embedding) != 4 || res.Embedding[3] != 0.4 {
		t.Errorf("embedding = %v", res.Embedding)
	}
	if res.PromptTokens != 42 || res.TotalTokens != 42 {
		t.Errorf("usage = %d/%d", res.PromptTokens, res.TotalTokens)
	}
	if body["dimensions"] != float64(4) {
		t.Errorf("request dimensions = %v", body["dimensions"])
	}
}

func TestEmbed_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		wantMsg     string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit_error"}}`, true, "slow down"},
		{"server error detail", http.StatusInternalServerError, `{"detail":"model overloaded"}`, false, "model overloaded"},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"input too long"}}`, false, "input too long"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeStatus(w, tc.status, tc.body)
			}))
			defer srv.Close()

			_, err := newTestEmbedder(srv.URL).Embed(context.Background(), "hello")
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Fatalf("expected provider error, got %v", err)
			}
			if errors.Is(err, domain.ErrRateLimited) != tc.rateLimited {
				t.Errorf("rate limited = %v, want %v (%v)", !tc.rateLimited, tc.rateLimited, err)
			}
			if tc.wantMsg != "" && !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q lacks %q", err, tc.wantMsg)
			}
		})
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, `{"object":"list","data":[],"model":"m"}`)
	}))
	defer srv.Close()

	if _, err := newTestEmbedder(srv.URL).Embed(context.Background(), "hello"); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error for empty data, got %v", err)
	}
}

func TestEmbed_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch calls.Add(1) {
		case 1:
			writeStatus(w, http.StatusServiceUnavailable, `{"detail":"warming up"}`)
		case 2:
			writeStatus(w, http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)
		default:
			writeEmbedding(w, []float32{1}, 3)
		}
	}))
	defer srv.Close()

	emb := newTestEmbedder(srv.URL, func(c *Config) { c.MaxRetries = 2 })
	res, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if calls.Load() != 3 || res.TotalTokens != 3 {
		t.Errorf("calls = %d, tokens = %d", calls.Load(), res.TotalTokens)
	}
}

func TestEmbed_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeStatus(w, http.StatusBadGateway, `{"detail":"upstream"}`)
	}))
	defer srv.Close()

	emb := newTestEmbedder(srv.URL, func(c *Config) { c.MaxRetries = 2 })
	if _, err := emb.Embed(context.Background(), "hello"); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestEmbed_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeStatus(w, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	emb := newTestEmbedder(srv.URL, func(c *Config) { c.MaxRetries = 3 })
	if _, err := emb.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("401 must not be retried, calls = %d", calls.Load())
	}
}

func TestEmbed_RateLimiterHonoursContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeEmbedding(w, []float32{1}, 1)
	}))
	defer srv.Close()

	emb := newTestEmbedder(srv.URL, func(c *Config) { c.RequestsPerSecond = 0.001 })
	if _, err := emb.Embed(context.Background(), "first"); err != nil {
		t.Fatalf("first call uses the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := emb.Embed(ctx, "second"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("limited call reached the server, calls = %d", calls.Load())
	}
}

func TestBackoff(t *testing.T) {
	for attempt, want := range map[int]time.Duration{
		1: 250 * time.Millisecond, 2: 500 * time.Millisecond, 3: time.Second, 5: 4 * time.Second, 40: 4 * time.Second,
	} {
		if got := backoff(attempt); got != want {
			t.Errorf("backoff(%d) = %v, want %v", attempt, got, want)
		}
	}
}
