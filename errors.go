package sheetbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a required setting is missing or invalid.
	// The server must not start serving when it sees this error.
	ErrConfig = errors.New("invalid configuration")
	// ErrFetch is returned when the upstream range read fails for any reason.
	ErrFetch = errors.New("fetch failed")
	// ErrNotFound is returned when an endpoint or journal entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// Upstream failure kinds. They are only used for logging and the journal;
// callers over HTTP always see a single generic failure.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidRange = errors.New("invalid range")
	ErrUnavailable  = errors.New("upstream unavailable")
	ErrTimeout      = errors.New("upstream timeout")
)

// FetchError describes a failed upstream read for one endpoint.
type FetchError struct {
	Endpoint string
	Range    string
	// Kind is one of ErrUnauthorized, ErrInvalidRange, ErrUnavailable,
	// ErrTimeout, or nil when the cause could not be classified.
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Endpoint, e.Range, e.Err)
}

func (e *FetchError) Unwrap() []error {
	errs := []error{ErrFetch, e.Err}
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	return errs
}

// Outcome returns the journal outcome label for the error kind.
func (e *FetchError) Outcome() Outcome {
	return OutcomeOf(e.Kind)
}

// ClassifyKind returns the failure kind sentinel wrapped by err, or nil.
func ClassifyKind(err error) error {
	for _, kind := range []error{ErrUnauthorized, ErrInvalidRange, ErrTimeout, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
