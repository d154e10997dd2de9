package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEmbeddingCall_Succeeded(t *testing.T) {
	const provider, model = "test-ok", "m1"

	StartEmbeddingCall(provider, model).Succeeded(7, 9)

	if got := testutil.ToFloat64(EmbeddingRequestsTotal.WithLabelValues(provider, model, "success")); got != 1 {
		t.Errorf("success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EmbeddingTokensTotal.WithLabelValues(provider, model, "prompt")); got != 7 {
		t.Errorf("prompt tokens = %v, want 7", got)
	}
	if got := testutil.ToFloat64(EmbeddingTokensTotal.WithLabelValues(provider, model, "total")); got != 9 {
		t.Errorf("total tokens = %v, want 9", got)
	}
}

func TestEmbeddingCall_NoUsage(t *testing.T) {
	const provider, model = "test-nousage", "m1"

	before := testutil.CollectAndCount(EmbeddingTokensTotal)
	StartEmbeddingCall(provider, model).Succeeded(0, 0)

	if after := testutil.CollectAndCount(EmbeddingTokensTotal); after != before {
		t.Errorf("token series %d -> %d, want unchanged", before, after)
	}
	if got := testutil.ToFloat64(EmbeddingRequestsTotal.WithLabelValues(provider, model, "success")); got != 1 {
		t.Errorf("success count = %v, want 1", got)
	}
}

func TestEmbeddingCall_Failed(t *testing.T) {
	const provider, model = "test-fail", "m1"

	StartEmbeddingCall(provider, model).Failed(ErrorEmptyResponse)
	EmbeddingThrottled(provider, model)

	if got := testutil.ToFloat64(EmbeddingRequestsTotal.WithLabelValues(provider, model, "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	for _, cause := range []string{ErrorEmptyResponse, ErrorRateLimited} {
		if got := testutil.ToFloat64(EmbeddingErrorsTotal.WithLabelValues(provider, model, cause)); got != 1 {
			t.Errorf("%s = %v, want 1", cause, got)
		}
	}
}
