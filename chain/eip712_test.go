package chain

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTypeHash_MatchesExchangeContract(t *testing.T) {
	assert.Equal(t,
		"0xa852566c4e14d00869b6db0220888a9090a13eccdaea03713ff0a3d27bf9767c",
		OrderTypeHash.Hex(),
	)
}

func TestEncodeForSigning_ReferenceVector(t *testing.T) {
	domain := polygonDomain(negRiskExchange)
	separator, err := domain.Hash()
	require.NoError(t, err)
	assert.Equal(t, "0x82cb6aa85babb812f4b521a12b10f0cbc68d2b44be7bc02c047004f544adb49f", separator.Hex())

	ob, err := NewOrderBuilder(domain, nil, nil)
	require.NoError(t, err)
	order, err := ob.BuildOrderWithSalt(fixtureOrderData(), 1297788380)
	require.NoError(t, err)

	typed, err := OrderToTypedData(order)
	require.NoError(t, err)
	structHash, err := typed.Hash()
	require.NoError(t, err)
	assert.Equal(t, "0x8812243f393572f8cd5c9de4a838dcacb03343e3c077a60f1bc23565f82c12ac", structHash.Hex())

	preimage, err := ob.EncodeForSigning(order)
	require.NoError(t, err)
	require.Len(t, preimage, 66)
	assert.Equal(t, []byte{0x19, 0x01}, preimage[:2])
	assert.Equal(t, separator.Bytes(), preimage[2:34])
	assert.Equal(t, structHash.Bytes(), preimage[34:])

	hash, err := ob.SigningHash(order)
	require.NoError(t, err)
	assert.Equal(t, "0x4ad9c939a74f236736b39df7c4e25c8b11665cfcbae9126f768515e7a992cfb6", hash.Hex())
	assert.Equal(t, crypto.Keccak256Hash(preimage), hash)
}

func TestEncodeForSigning_IndependentOfTextualForm(t *testing.T) {
	ob := newTestBuilder(t, FixedSalt(99))

	canonical, err := ob.BuildOrder(fixtureOrderData())
	require.NoError(t, err)

	data := fixtureOrderData()
	data.MakerAmount = "0000085000"
	data.Expiration = "000"
	data.Maker = "0xEFA7CD2E9BFA38F04AF95DF90DA90B194E4ED191"
	data.Signer = "0xeFa7Cd2E9BFa38F04Af95df90da90B194e4ed191"
	data.Taker = ""
	variant, err := ob.BuildOrder(data)
	require.NoError(t, err)

	a, err := ob.EncodeForSigning(canonical)
	require.NoError(t, err)
	b, err := ob.EncodeForSigning(variant)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeForSigning_Deterministic(t *testing.T) {
	ob := newTestBuilder(t, FixedSalt(7))
	order, err := ob.BuildOrder(fixtureOrderData())
	require.NoError(t, err)

	first, err := ob.EncodeForSigning(order)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ob.EncodeForSigning(order.Clone())
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again))
	}
}

func TestEncodeForSigning_Boundaries(t *testing.T) {
	ob := newTestBuilder(t, FixedSalt(3))
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	for _, value := range []*big.Int{
		new(big.Int).Lsh(big.NewInt(1), 64),
		new(big.Int).Lsh(big.NewInt(1), 128),
		maxUint256,
	} {
		data := fixtureOrderData()
		data.TokenID = value.String()
		data.MakerAmount = value.String()
		order, err := ob.BuildOrder(data)
		require.NoError(t, err)

		typed, err := OrderToTypedData(order)
		require.NoError(t, err)
		assert.Equal(t, 0, typed.TokenID.Cmp(value))

		_, err = ob.EncodeForSigning(order)
		require.NoError(t, err, "value %s", value)
	}

	order, err := ob.BuildOrder(fixtureOrderData())
	require.NoError(t, err)
	order.TokenID = new(big.Int).Add(maxUint256, big.NewInt(1))
	_, err = ob.EncodeForSigning(order)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestEncodeForSigning_DomainSeparatesExchanges(t *testing.T) {
	order, err := newTestBuilder(t, FixedSalt(11)).BuildOrder(fixtureOrderData())
	require.NoError(t, err)

	a, err := EncodeOrderForSigning(polygonDomain(ctfExchange), order)
	require.NoError(t, err)
	b, err := EncodeOrderForSigning(polygonDomain(negRiskExchange), order)
	require.NoError(t, err)
	c, err := EncodeOrderForSigning(NewEIP712Domain(OpinionDomainName, big.NewInt(56), common.HexToAddress(ctfExchange)), order)
	require.NoError(t, err)

	assert.Equal(t, a[34:], b[34:], "struct hash does not depend on the domain")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestToTypedData_HashMatchesABIEncoding(t *testing.T) {
	ob := newTestBuilder(t, FixedSalt(1297788380))
	data := fixtureOrderData()
	data.Side = OrderSideSell
	data.SignatureType = SignatureTypePolyGnosisSafe
	data.Expiration = "1765824355"
	order, err := ob.BuildOrder(data)
	require.NoError(t, err)

	td, err := ToTypedData(ob.Domain(), order)
	require.NoError(t, err)
	viaTypedData, err := TypedDataHash(td)
	require.NoError(t, err)

	viaABI, err := ob.SigningHash(order)
	require.NoError(t, err)
	assert.Equal(t, viaABI, viaTypedData)
}

func TestClobAuthTypedData_ReferenceVector(t *testing.T) {
	td := ClobAuthTypedData(big.NewInt(137), common.HexToAddress(testAddress), "1700000000", 0)
	hash, err := TypedDataHash(td)
	require.NoError(t, err)
	assert.Equal(t, "0xc85352894b3c41f3ea6152479d64b9233fbaf2de87eabc7e4bba3a161fd28493", hash.Hex())

	signer, err := NewPrivateKeySigner(testPrivateKey)
	require.NoError(t, err)
	sig, err := SignClobAuth(signer, big.NewInt(137), "1700000000", 0)
	require.NoError(t, err)
	assert.Len(t, sig, 132)

	raw, err := DecodeSignature(sig)
	require.NoError(t, err)
	recovered, err := RecoverSigner(hash, raw)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}
