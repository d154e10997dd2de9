package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/logger"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeInvalidStatus          ErrorCode = "invalid_status"
	CodeNotFound               ErrorCode = "not_found"
	CodeProfileNotFound        ErrorCode = "profile_not_found"
	CodeJobNotFound            ErrorCode = "job_not_found"
	CodeApplicationNotFound    ErrorCode = "application_not_found"
	CodeJobNotPublished        ErrorCode = "job_not_published"
	CodeAlreadyApplied         ErrorCode = "already_applied"
	CodeRateLimited            ErrorCode = "rate_limited"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, CodeProfileNotFound),
	sentinelHandler(domain.ErrJobNotFound, http.StatusNotFound, CodeJobNotFound),
	sentinelHandler(domain.ErrApplicationNotFound, http.StatusNotFound, CodeApplicationNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus),
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrJobNotPublished, http.StatusUnprocessableEntity, CodeJobNotPublished),
	sentinelHandler(domain.ErrAlreadyApplied, http.StatusConflict, CodeAlreadyApplied),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
}

// sentinels are the errors whose text is safe to show to clients.
var sentinels = []error{
	domain.ErrProfileNotFound,
	domain.ErrJobNotFound,
	domain.ErrApplicationNotFound,
	domain.ErrNotFound,
	domain.ErrInvalidStatus,
	domain.ErrInvalidInput,
	domain.ErrJobNotPublished,
	domain.ErrAlreadyApplied,
	domain.ErrRateLimited,
	domain.ErrEmbeddingProviderError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
