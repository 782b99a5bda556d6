package domain

import "errors"

var (
	// ErrTransportFailure is returned when the meal service cannot be reached or times out
	ErrTransportFailure = errors.New("meal service request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSlotMismatch is returned when a meal is stored under a slot it does not belong to
	ErrSlotMismatch = errors.New("meal does not belong to slot")

	// ErrPlanLoading is returned when a full plan fetch is already outstanding
	ErrPlanLoading = errors.New("meal plan is already loading")

	// ErrSessionNotFound is returned when no plan session exists for an id
	ErrSessionNotFound = errors.New("plan session not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// ErrorKind is the error category reported to the view layer.
type ErrorKind string

const (
	ErrorKindTransportFailure ErrorKind = "transport_failure"
)
