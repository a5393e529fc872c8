package chain

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/pkg/errors"
)

// maxSafeSalt keeps salts within the range a JSON number can carry exactly
// through IEEE-754 based parsers on the receiving side.
const maxSafeSalt = 1<<53 - 1

// SaltSource supplies a fresh salt per order.
type SaltSource interface {
	NextSalt() (uint64, error)
}

// SaltFunc adapts a function to SaltSource.
type SaltFunc func() (uint64, error)

func (f SaltFunc) NextSalt() (uint64, error) {
	return f()
}

// FixedSalt always returns the same salt. Only for tests and conformance runs.
type FixedSalt uint64

func (s FixedSalt) NextSalt() (uint64, error) {
	return uint64(s), nil
}

// RandomSalt draws non-zero salts from crypto/rand.
type RandomSalt struct{}

func (RandomSalt) NextSalt() (uint64, error) {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, errors.Wrap(err, "failed to read random salt")
		}
		if salt := binary.BigEndian.Uint64(buf[:]) & maxSafeSalt; salt != 0 {
			return salt, nil
		}
	}
}
