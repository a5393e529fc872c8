package chain

import (
	"fmt"
	"math/big"
)

// ZeroAddress is the taker used for orders open to any counterparty.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// OrderSide represents the side of an order
type OrderSide uint8

const (
	OrderSideBuy OrderSide = iota
	OrderSideSell
)

// String returns the literal name used on the wire ("BUY" or "SELL").
func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return fmt.Sprintf("OrderSide(%d)", uint8(s))
	}
}

// Valid reports whether s is BUY or SELL.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// ParseOrderSide parses the wire name of a side.
func ParseOrderSide(name string) (OrderSide, error) {
	switch name {
	case "BUY":
		return OrderSideBuy, nil
	case "SELL":
		return OrderSideSell, nil
	default:
		return 0, &ValidationError{Field: "side", Value: name, Err: ErrInvalidSide}
	}
}

// SignatureType identifies the wallet scheme that produced an order signature
type SignatureType uint8

const (
	SignatureTypeEOA SignatureType = iota
	SignatureTypePolyProxy
	SignatureTypePolyGnosisSafe
)

// String returns the conventional name of the signature type.
func (t SignatureType) String() string {
	switch t {
	case SignatureTypeEOA:
		return "EOA"
	case SignatureTypePolyProxy:
		return "POLY_PROXY"
	case SignatureTypePolyGnosisSafe:
		return "POLY_GNOSIS_SAFE"
	default:
		return fmt.Sprintf("SignatureType(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the known signature schemes.
func (t SignatureType) Valid() bool {
	return t <= SignatureTypePolyGnosisSafe
}

// OrderData represents the caller-supplied parameters for building an order.
// Numeric fields are decimal strings in base units; empty optional fields take
// their defaults (signer = maker, taker = zero address, others "0").
type OrderData struct {
	Maker         string
	Signer        string
	Taker         string
	TokenID       string
	MakerAmount   string
	TakerAmount   string
	Expiration    string
	Nonce         string
	FeeRateBps    string
	Side          OrderSide
	SignatureType SignatureType
}

// Order is the canonical unsigned order record. Field order matches both the
// EIP712 Order type and the transport JSON.
type Order struct {
	Salt          uint64
	Maker         string
	Signer        string
	Taker         string
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          OrderSide
	SignatureType SignatureType
}

// SignedOrder represents an order with its signature
type SignedOrder struct {
	Order
	Signature string
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	c := *o
	c.TokenID = cloneInt(o.TokenID)
	c.MakerAmount = cloneInt(o.MakerAmount)
	c.TakerAmount = cloneInt(o.TakerAmount)
	c.Expiration = cloneInt(o.Expiration)
	c.Nonce = cloneInt(o.Nonce)
	c.FeeRateBps = cloneInt(o.FeeRateBps)
	return &c
}

// Equal reports whether two orders carry the same field values.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Salt == other.Salt &&
		o.Maker == other.Maker &&
		o.Signer == other.Signer &&
		o.Taker == other.Taker &&
		intEqual(o.TokenID, other.TokenID) &&
		intEqual(o.MakerAmount, other.MakerAmount) &&
		intEqual(o.TakerAmount, other.TakerAmount) &&
		intEqual(o.Expiration, other.Expiration) &&
		intEqual(o.Nonce, other.Nonce) &&
		intEqual(o.FeeRateBps, other.FeeRateBps) &&
		o.Side == other.Side &&
		o.SignatureType == other.SignatureType
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func intEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
