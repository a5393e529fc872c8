package clobsign

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/kaifufi/clob-signing-go/chain"
)

const (
	// CollateralDecimals is the number of decimals of the collateral token
	// and of outcome shares.
	CollateralDecimals = 6
	// SharePrecision is the number of decimals accepted for share amounts.
	SharePrecision = 2
	// CollateralPrecision is the number of decimals accepted for collateral
	// amounts.
	CollateralPrecision = 5

	MinPrice = "0.01"
	MaxPrice = "0.99"

	ZeroAddress = chain.ZeroAddress
)

// OrderAmounts are the base-unit amounts of an order.
type OrderAmounts struct {
	MakerAmount *big.Int
	TakerAmount *big.Int
}

// ParseDecimal parses a plain non-negative decimal such as "0.5" or "100".
// Exponents, signs and fractions like "1/2" are rejected.
func ParseDecimal(name, value string) (*big.Rat, error) {
	s := strings.TrimSpace(value)
	if s == "" || strings.Count(s, ".") > 1 || strings.Trim(s, "0123456789.") != "" || s == "." {
		return nil, &InvalidParamError{Message: fmt.Sprintf("%s must be a decimal number, got %q", name, value), Err: ErrInvalidAmount}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, &InvalidParamError{Message: fmt.Sprintf("%s must be a decimal number, got %q", name, value), Err: ErrInvalidAmount}
	}
	return r, nil
}

// roundHalfUp rounds a non-negative r to places decimals.
func roundHalfUp(r *big.Rat, places int) *big.Rat {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(scale))

	// floor((2*num + den) / (2*den))
	num := new(big.Int).Mul(scaled.Num(), big.NewInt(2))
	num.Add(num, scaled.Denom())
	den := new(big.Int).Mul(scaled.Denom(), big.NewInt(2))
	q := new(big.Int).Quo(num, den)

	return new(big.Rat).SetFrac(q, scale)
}

// ToBaseUnits converts a decimal amount to integer base units, rounding to
// precision decimals first. precision must not exceed decimals.
func ToBaseUnits(amount *big.Rat, decimals, precision int) (*big.Int, error) {
	if precision > decimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("precision %d exceeds %d decimals", precision, decimals)}
	}
	rounded := roundHalfUp(amount, precision)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	units := new(big.Rat).Mul(rounded, new(big.Rat).SetInt(scale))
	if !units.IsInt() {
		return nil, &InvalidParamError{Message: "amount does not convert to whole base units"}
	}
	n := new(big.Int).Set(units.Num())
	if _, err := chain.ParseAmount("amount", n.String()); err != nil {
		return nil, err
	}
	return n, nil
}

// CalculateOrderAmounts converts a limit price and share size into maker and
// taker amounts. BUY gives collateral (size*price) for shares (size); SELL
// gives shares for collateral. Shares are rounded to SharePrecision and
// collateral to CollateralPrecision decimals.
func CalculateOrderAmounts(price, size string, side chain.OrderSide) (*OrderAmounts, error) {
	p, err := ParseDecimal("price", price)
	if err != nil {
		return nil, err
	}
	minPrice, _ := new(big.Rat).SetString(MinPrice)
	maxPrice, _ := new(big.Rat).SetString(MaxPrice)
	if p.Cmp(minPrice) < 0 || p.Cmp(maxPrice) > 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("price must be between %s and %s, got %s", MinPrice, MaxPrice, price)}
	}
	s, err := ParseDecimal("size", size)
	if err != nil {
		return nil, err
	}
	if s.Sign() <= 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("size must be positive, got %s", size), Err: ErrInvalidAmount}
	}

	shares, err := ToBaseUnits(s, CollateralDecimals, SharePrecision)
	if err != nil {
		return nil, err
	}
	collateral, err := ToBaseUnits(new(big.Rat).Mul(s, p), CollateralDecimals, CollateralPrecision)
	if err != nil {
		return nil, err
	}
	if shares.Sign() == 0 || collateral.Sign() == 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("size %s at price %s rounds to zero", size, price), Err: ErrInvalidAmount}
	}

	switch side {
	case chain.OrderSideBuy:
		return &OrderAmounts{MakerAmount: collateral, TakerAmount: shares}, nil
	case chain.OrderSideSell:
		return &OrderAmounts{MakerAmount: shares, TakerAmount: collateral}, nil
	default:
		return nil, &InvalidParamError{Message: fmt.Sprintf("unknown side %d", side), Err: ErrInvalidSide}
	}
}
