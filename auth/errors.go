package auth

import "errors"

var (
	// ErrInvalidSecretEncoding is returned when the API secret is not URL-safe base64.
	ErrInvalidSecretEncoding = errors.New("invalid secret encoding")
	// ErrInvalidTimestamp is returned for timestamps that are not decimal unix seconds.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrDigestMismatch is returned by Verify when a presented signature does not match.
	ErrDigestMismatch = errors.New("digest mismatch")
)
