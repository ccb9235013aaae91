package models

import "errors"

// Pipeline errors. Callers classify failures with errors.Is; lower layers
// wrap these with call-site detail.
var (
	// ErrTenderNotFound indicates the requested tender does not exist.
	ErrTenderNotFound = errors.New("tender not found")

	// ErrTenderNotPublished indicates the tender is not in a state that
	// permits indexing or retrieval.
	ErrTenderNotPublished = errors.New("tender not published")

	// ErrNoContent indicates chunking produced nothing to index.
	ErrNoContent = errors.New("no content to index")

	// ErrInvalidInput indicates an empty question or empty text to embed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a backend credential or endpoint is missing.
	// Always fatal, never masked by a fallback answer.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrUpstream indicates an embedding or language-model call failed.
	ErrUpstream = errors.New("upstream call failed")

	// ErrDimensionMismatch indicates the backend returned a vector of the
	// wrong length. Always fatal, never truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
