package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProfileNotFound signals a missing job seeker profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrJobNotFound signals a missing job posting.
	ErrJobNotFound = errors.New("job not found")
	// ErrApplicationNotFound signals a missing application.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidStatus signals an unknown job or application status.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrJobNotPublished signals an application to a job that is not accepting them.
	ErrJobNotPublished = errors.New("job is not published")
	// ErrAlreadyApplied signals a duplicate application.
	ErrAlreadyApplied = errors.New("already applied to this job")

	// ErrEmbeddingUnavailable signals that no vector could be produced right now.
	// Callers treat it as "no vectors" and degrade; it never reaches users.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrDimensionMismatch signals two vectors of different length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrIncompleteTriple signals an entity with fewer than three vectors.
	ErrIncompleteTriple = errors.New("incomplete vector triple")
	// ErrVectorsUnavailable signals that an entity has no usable triple and one could not be built.
	ErrVectorsUnavailable = errors.New("vectors unavailable")
	// ErrRetrievalUnavailable signals a failed ANN query or a missing index.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrGenerationUnavailable signals a failed text generation call.
	ErrGenerationUnavailable = errors.New("text generation unavailable")
)
