package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	// well-known development key (anvil/hardhat account #0)
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	fixtureMaker   = "0xefa7cd2e9bfa38f04af95df90da90b194e4ed191"
	fixtureTokenID = "59123046651639406043770531564026866824584320057748742767920960374229735119462"

	negRiskExchange = "0xC5d563A36AE78145C45a50134d48A1215220f80a"
	ctfExchange     = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
)

func polygonDomain(exchange string) *EIP712Domain {
	return NewEIP712Domain(PolymarketDomainName, big.NewInt(137), common.HexToAddress(exchange))
}

func newTestBuilder(t *testing.T, salts SaltSource) *OrderBuilder {
	t.Helper()
	ob, err := NewOrderBuilder(polygonDomain(ctfExchange), salts, zap.NewNop())
	require.NoError(t, err)
	return ob
}

func fixtureOrderData() *OrderData {
	return &OrderData{
		Maker:         fixtureMaker,
		Signer:        fixtureMaker,
		Taker:         ZeroAddress,
		TokenID:       fixtureTokenID,
		MakerAmount:   "85000",
		TakerAmount:   "100000",
		Expiration:    "0",
		Nonce:         "0",
		FeeRateBps:    "0",
		Side:          OrderSideBuy,
		SignatureType: SignatureTypeEOA,
	}
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad test integer %q", s)
	return n
}
