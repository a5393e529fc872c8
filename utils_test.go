package clobsign

import (
	"errors"
	"testing"

	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOrderAmounts(t *testing.T) {
	for _, tc := range []struct {
		name         string
		price, size  string
		side         chain.OrderSide
		maker, taker string
	}{
		{"buy 100 at 0.50", "0.50", "100", chain.OrderSideBuy, "50000000", "100000000"},
		{"sell 100 at 0.50", "0.5", "100", chain.OrderSideSell, "100000000", "50000000"},
		{"buy 0.1 at 0.85", "0.85", "0.1", chain.OrderSideBuy, "85000", "100000"},
		{"shares round to 2 decimals", "0.5", "10.005", chain.OrderSideBuy, "5002500", "10010000"},
		{"collateral rounds to 5 decimals", "0.333", "1.11", chain.OrderSideSell, "1110000", "369630"},
		{"price bounds inclusive", "0.99", "5", chain.OrderSideBuy, "4950000", "5000000"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			amounts, err := CalculateOrderAmounts(tc.price, tc.size, tc.side)
			require.NoError(t, err)
			assert.Equal(t, tc.maker, amounts.MakerAmount.String())
			assert.Equal(t, tc.taker, amounts.TakerAmount.String())
		})
	}
}

func TestCalculateOrderAmounts_Rejects(t *testing.T) {
	for _, tc := range []struct {
		name        string
		price, size string
		side        chain.OrderSide
		want        error
	}{
		{"price too low", "0.001", "100", chain.OrderSideBuy, ErrInvalidParam},
		{"price too high", "0.999", "100", chain.OrderSideBuy, ErrInvalidParam},
		{"negative size", "0.5", "-10", chain.OrderSideBuy, ErrInvalidAmount},
		{"zero size", "0.5", "0", chain.OrderSideBuy, ErrInvalidAmount},
		{"rounds to zero", "0.5", "0.001", chain.OrderSideSell, ErrInvalidAmount},
		{"exponent", "0.5", "1e3", chain.OrderSideBuy, ErrInvalidAmount},
		{"fraction", "1/2", "10", chain.OrderSideBuy, ErrInvalidAmount},
		{"bad side", "0.5", "10", chain.OrderSide(3), ErrInvalidSide},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateOrderAmounts(tc.price, tc.size, tc.side)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			var perr *InvalidParamError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestToBaseUnits(t *testing.T) {
	r, err := ParseDecimal("amount", "1.234567")
	require.NoError(t, err)

	n, err := ToBaseUnits(r, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, "1234567", n.String())

	n, err = ToBaseUnits(r, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, "1230000", n.String())

	_, err = ToBaseUnits(r, 2, 6)
	assert.Error(t, err)
}
