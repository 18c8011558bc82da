package domain

import "errors"

var (
	// ErrInvalidQuery is returned for an empty or whitespace-only query, or a
	// result count outside the allowed range. Rejected before any provider call.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNoStoreFound is returned when the snapshot directory holds no
	// database files, or a requested file does not exist.
	ErrNoStoreFound = errors.New("no vector store found")

	// ErrStoreUnavailable is returned when the selected snapshot cannot be
	// opened or queried. The file is static, so this is not retried.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingProvider is returned when the external embedding provider
	// fails (timeout, auth, quota). Retries, if desired, belong to the caller.
	ErrEmbeddingProvider = errors.New("embedding provider error")
)
