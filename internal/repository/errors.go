package repository

import "errors"

var (
	// ErrNotFound covers both a missing id and an id owned by another
	// user. The two cases must stay indistinguishable so that record
	// existence never leaks across identities.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable marks transient storage failures (timeouts,
	// transport errors, write conflicts on retryable paths). Callers
	// may retry; validation and not-found errors never wrap it.
	ErrUnavailable = errors.New("storage unavailable")
)
