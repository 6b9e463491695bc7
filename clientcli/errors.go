package clientcli

import (
	"errors"
	"net/http"
	"strconv"
)

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration and input validation.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrEmptyPath      = errors.New("path is required")
	ErrInvalidURL     = errors.New("endpoint must be an http or https URL")
	ErrBadEnvelope    = errors.New("response is not a single-key JSON object")
)

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	// Message is the server's "error" field when the body carried one.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when no endpoint is registered at the path (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrFetchFailed is returned when the server could not read the sheet (500).
	ErrFetchFailed = &APIError{StatusCode: http.StatusInternalServerError}

	// ErrBadRequest is returned for rejected query parameters (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
