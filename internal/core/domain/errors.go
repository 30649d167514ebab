package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStreamInFlight indicates a session already has an active
	// request; a second submission is rejected at the call site.
	ErrStreamInFlight = errors.New("a request is already streaming")

	// ErrSessionClosed indicates the session was torn down; late
	// events and submissions are discarded.
	ErrSessionClosed = errors.New("session closed")

	// ErrBackendUnavailable indicates the dashboard backend is not
	// reachable or not configured.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthRequired indicates no credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the stored token has expired.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthInvalid indicates the backend rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")
)
