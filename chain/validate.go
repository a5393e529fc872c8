package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ValidateAddress checks that addr is a 0x-prefixed 20-byte hex string. The
// address is not re-cased: checksum and lower-case forms are both accepted
// and kept as given.
func ValidateAddress(field, addr string) error {
	if !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return &ValidationError{Field: field, Value: addr, Err: ErrInvalidAddress}
	}
	return nil
}

// ParseAmount parses a non-negative decimal integer that must fit in 256 bits.
// Leading zeros are accepted and dropped; signs, whitespace and other bases are not.
func ParseAmount(field, value string) (*big.Int, error) {
	if !isDecimal(value) {
		return nil, &ValidationError{Field: field, Value: value, Err: ErrInvalidAmount}
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, &ValidationError{Field: field, Value: value, Err: ErrInvalidAmount}
	}
	if err := checkUint256(field, n); err != nil {
		return nil, err
	}
	return n, nil
}

func checkUint256(field string, n *big.Int) error {
	if n == nil {
		return &ValidationError{Field: field, Err: ErrInvalidAmount}
	}
	if n.Sign() < 0 {
		return &ValidationError{Field: field, Value: n.String(), Err: ErrInvalidAmount}
	}
	if _, overflow := uint256.FromBig(n); overflow {
		return &ValidationError{Field: field, Value: n.String(), Err: ErrAmountOverflow}
	}
	return nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Validate checks every field of an order that was not produced by the builder.
func (o *Order) Validate() error {
	for _, a := range []struct{ field, value string }{
		{"maker", o.Maker},
		{"signer", o.Signer},
		{"taker", o.Taker},
	} {
		if err := ValidateAddress(a.field, a.value); err != nil {
			return err
		}
	}
	for _, n := range []struct {
		field string
		value *big.Int
	}{
		{"tokenId", o.TokenID},
		{"makerAmount", o.MakerAmount},
		{"takerAmount", o.TakerAmount},
		{"expiration", o.Expiration},
		{"nonce", o.Nonce},
		{"feeRateBps", o.FeeRateBps},
	} {
		if err := checkUint256(n.field, n.value); err != nil {
			return err
		}
	}
	if !o.Side.Valid() {
		return &ValidationError{Field: "side", Value: o.Side.String(), Err: ErrInvalidSide}
	}
	if !o.SignatureType.Valid() {
		return &ValidationError{Field: "signatureType", Value: o.SignatureType.String(), Err: ErrInvalidSignatureType}
	}
	return nil
}
