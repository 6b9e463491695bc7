package credentials

import "errors"

var (
	// ErrEmailRequired is returned when no service account email is configured.
	ErrEmailRequired = errors.New("service account email is required")
	// ErrPrivateKeyRequired is returned when no service account private key is configured.
	ErrPrivateKeyRequired = errors.New("service account private key is required")
)
