package clobsign

import (
	"errors"

	"github.com/kaifufi/clob-signing-go/auth"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/kaifufi/clob-signing-go/conformance"
)

// Error kinds callers can match with errors.Is.
var (
	ErrInvalidAddress         = chain.ErrInvalidAddress
	ErrAmountOverflow         = chain.ErrAmountOverflow
	ErrInvalidAmount          = chain.ErrInvalidAmount
	ErrInvalidSide            = chain.ErrInvalidSide
	ErrInvalidSignatureType   = chain.ErrInvalidSignatureType
	ErrInvalidSignatureLength = chain.ErrInvalidSignatureLength
	ErrInvalidSecretEncoding  = auth.ErrInvalidSecretEncoding
	ErrInvalidTimestamp       = auth.ErrInvalidTimestamp
	ErrDigestMismatch         = auth.ErrDigestMismatch
	ErrSchemaMismatch         = conformance.ErrSchemaMismatch
	ErrEncodingMismatch       = conformance.ErrEncodingMismatch

	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrInvalidOwner is returned when the envelope owner is not an API key UUID
	ErrInvalidOwner = errors.New("invalid owner")

	// ErrInvalidOrderType is returned for order types other than GTC, GTD, FOK and FAK
	ErrInvalidOrderType = errors.New("invalid order type")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
	Err     error
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

// Unwrap returns the error kind, defaulting to ErrInvalidParam.
func (e *InvalidParamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidParam
}
