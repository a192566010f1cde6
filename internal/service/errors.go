package service

import "errors"

// Error taxonomy: handlers map these to HTTP status codes with errors.Is.
// Validation failures are detected before any persistence attempt; storage
// failures are logged server-side and surfaced as a generic internal error.
var (
	// ErrValidation marks user-correctable input problems (422).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks lookups of unknown identifiers (404).
	ErrNotFound = errors.New("not found")

	// ErrStorage marks persistence layer failures (500).
	ErrStorage = errors.New("storage error")

	// ErrUnauthorized marks failed credential checks (401).
	ErrUnauthorized = errors.New("invalid credentials")
)
