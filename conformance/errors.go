package conformance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch is wrapped by SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrEncodingMismatch is wrapped by EncodingMismatchError.
	ErrEncodingMismatch = errors.New("encoding mismatch")
)

// SchemaMismatchError summarizes a failed Report.
type SchemaMismatchError struct {
	Schema   string
	Fields   []string
	Extra    []string
	Missing  []string
	KeyOrder bool
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Fields) > 0 {
		parts = append(parts, "fields differ: "+strings.Join(e.Fields, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "extra keys: "+strings.Join(e.Extra, ", "))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if e.KeyOrder {
		parts = append(parts, "key order differs")
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaMismatch, e.Schema, strings.Join(parts, "; "))
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// EncodingMismatchError reports the first byte at which two signing payloads
// diverge. Offset equals the shorter length when one is a prefix of the other.
type EncodingMismatchError struct {
	Offset      int
	LeftLength  int
	RightLength int
}

func (e *EncodingMismatchError) Error() string {
	return fmt.Sprintf("%s: signing bytes differ at offset %d (lengths %d and %d)",
		ErrEncodingMismatch, e.Offset, e.LeftLength, e.RightLength)
}

func (e *EncodingMismatchError) Unwrap() error {
	return ErrEncodingMismatch
}
