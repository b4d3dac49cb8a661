package domain

import "errors"

// Domain errors used across usecases and handlers.
var (
	// ErrUserNotFound covers both an unknown user id and a user without a
	// stored API credential; the caller cannot tell them apart.
	ErrUserNotFound = errors.New("user not found")

	// ErrUpstream marks any failed call to the external tracking API.
	// An aggregation that hits it fails as a whole; no partial results
	// are returned.
	ErrUpstream = errors.New("upstream api error")
)
