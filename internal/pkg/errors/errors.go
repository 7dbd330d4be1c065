package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists signals a uniqueness conflict (duplicate email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrUpstreamUnavailable covers embedding/completion provider failures.
	// Tolerated during sync, fatal during chat query processing.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrCompletionFailed is the single opaque error for a failed chat
	// completion round trip.
	ErrCompletionFailed = errors.New("completion failed")
)
