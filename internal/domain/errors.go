package domain

import (
	"errors"
	"fmt"
)

var (
	// Auth errors
	ErrNoToken      = errors.New("no auth token stored")
	ErrExpiredToken = errors.New("auth token has expired")
	ErrUnauthorized = errors.New("unauthorized")

	// Cache errors
	ErrKeyNotFound = errors.New("cache key not found")

	// Entity errors
	ErrPostNotFound    = errors.New("post not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrMissingPostID   = errors.New("post id is missing")
	ErrMissingWODID    = errors.New("wod id is missing")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// APIError is a non-2xx response surfaced to the caller: human-readable
// message, HTTP status, and a prefix of the raw body for diagnostics.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// NewAPIError builds an APIError, trimming the body to a short prefix.
func NewAPIError(status int, message, body string) *APIError {
	const maxBody = 200
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &APIError{Status: status, Message: message, Body: body}
}

// NetworkError wraps transport-level failures (timeouts, connectivity
// loss) so callers can tell them apart from server rejections.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
