package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// statusError keeps the HTTP status of a failed call for retry decisions.
type statusError struct {
	status int
	msg    string
	cause  error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("embedding API error %d: %s", e.status, e.msg)
}

func (e *statusError) Unwrap() error { return e.cause }

// classifyError wraps every failure in domain.ErrEmbeddingProviderError and
// HTTP 429 additionally in domain.ErrRateLimited.
func classifyError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := detail(reqErr.Body)
		if msg == "" {
			msg = string(reqErr.Body)
		}
		return &statusError{status: reqErr.HTTPStatusCode, msg: msg, cause: sentinelFor(reqErr.HTTPStatusCode)}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &statusError{status: apiErr.HTTPStatusCode, msg: apiErr.Message, cause: sentinelFor(apiErr.HTTPStatusCode)}
	}

	return fmt.Errorf("embedding request failed: %v: %w", err, domain.ErrEmbeddingProviderError)
}

func sentinelFor(status int) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, domain.ErrRateLimited)
	}
	return domain.ErrEmbeddingProviderError
}

// retryable reports 429 and 5xx answers. Transport failures without a
// status are left to the caller.
func retryable(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.status == http.StatusTooManyRequests || se.status >= http.StatusInternalServerError
}

// detail reads the {"detail": "..."} body some compatible providers send.
func detail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Detail
	}
	return ""
}
