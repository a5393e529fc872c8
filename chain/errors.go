package chain

import (
	"errors"
	"fmt"
)

// Order validation errors
var (
	ErrInvalidAddress         = errors.New("invalid address")
	ErrAmountOverflow         = errors.New("amount overflows uint256")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidSide            = errors.New("invalid side")
	ErrInvalidSignatureType   = errors.New("invalid signature type")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrSignerMismatch         = errors.New("signature does not match order signer")
)

// ValidationError names the order field that failed validation.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %q", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
