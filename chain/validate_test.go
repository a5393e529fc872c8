package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount_Boundaries(t *testing.T) {
	two := big.NewInt(2)
	pow := func(n int64) *big.Int { return new(big.Int).Exp(two, big.NewInt(n), nil) }
	maxUint256 := new(big.Int).Sub(pow(256), big.NewInt(1))

	for _, tc := range []struct {
		name  string
		value *big.Int
	}{
		{"zero", big.NewInt(0)},
		{"2^64", pow(64)},
		{"2^128", pow(128)},
		{"2^256-1", maxUint256},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, err := ParseAmount("tokenId", tc.value.String())
			require.NoError(t, err)
			assert.Equal(t, 0, n.Cmp(tc.value))
			assert.Equal(t, tc.value.String(), n.String())
		})
	}

	_, err := ParseAmount("tokenId", pow(256).String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmountOverflow))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tokenId", verr.Field)
}

func TestParseAmount_RejectsNonCanonicalText(t *testing.T) {
	for _, value := range []string{"", "-1", "+1", "0x10", " 1", "1 ", "1.0", "1e3", "1_000"} {
		_, err := ParseAmount("makerAmount", value)
		require.Error(t, err, "value %q", value)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "value %q", value)
	}
}

func TestParseAmount_LeadingZerosAreCanonicalized(t *testing.T) {
	n, err := ParseAmount("makerAmount", "00085000")
	require.NoError(t, err)
	assert.Equal(t, "85000", n.String())
}

func TestValidateAddress(t *testing.T) {
	require.NoError(t, ValidateAddress("maker", fixtureMaker))
	require.NoError(t, ValidateAddress("maker", testAddress))
	require.NoError(t, ValidateAddress("taker", ZeroAddress))

	for _, addr := range []string{
		"",
		"efa7cd2e9bfa38f04af95df90da90b194e4ed191",
		"0xefa7cd2e9bfa38f04af95df90da90b194e4ed19",
		"0xefa7cd2e9bfa38f04af95df90da90b194e4ed1911",
		"0xzfa7cd2e9bfa38f04af95df90da90b194e4ed191",
	} {
		err := ValidateAddress("maker", addr)
		require.Error(t, err, "address %q", addr)
		assert.True(t, errors.Is(err, ErrInvalidAddress))
	}
}

func TestOrderValidate_EnumsAndNilAmounts(t *testing.T) {
	ob := newTestBuilder(t, FixedSalt(1))
	order, err := ob.BuildOrder(fixtureOrderData())
	require.NoError(t, err)
	require.NoError(t, order.Validate())

	bad := order.Clone()
	bad.Side = 2
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSide))

	bad = order.Clone()
	bad.SignatureType = 3
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSignatureType))

	bad = order.Clone()
	bad.Nonce = nil
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidAmount))

	bad = order.Clone()
	bad.FeeRateBps = big.NewInt(-1)
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidAmount))
}

func TestParseOrderSide(t *testing.T) {
	side, err := ParseOrderSide("SELL")
	require.NoError(t, err)
	assert.Equal(t, OrderSideSell, side)

	_, err = ParseOrderSide("sell")
	assert.True(t, errors.Is(err, ErrInvalidSide))
	_, err = ParseOrderSide("1")
	assert.True(t, errors.Is(err, ErrInvalidSide))
}
