package clobsign

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kaifufi/clob-signing-go/auth"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/kaifufi/clob-signing-go/conformance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixtureTokenID = "59123046651639406043770531564026866824584320057748742767920960374229735119462"

// replaySigner returns a recorded signature for any hash.
type replaySigner struct {
	address   common.Address
	signature []byte
}

func (s replaySigner) Address() common.Address              { return s.address }
func (s replaySigner) SignHash(common.Hash) ([]byte, error) { return s.signature, nil }

func fixedClock() time.Time {
	return time.Unix(1765824355, 0)
}

func newTestClient(t *testing.T, cfg *Config, opts ...ClientOption) *Client {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	c, err := NewClient(cfg, logger, append([]ClientOption{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestClient_PrepareOrder_ReproducesRecordedRequest(t *testing.T) {
	sig := hexutil.MustDecode("0x6c96640200869044e2d77ffb01e69209a415d4818a122f297362248ca69246a91c83a52829dd5946e8d0ba36c8afef55592d43b0a8b19327e486846b6f5ec0481c")
	cfg := testConfig()
	cfg.PrivateKey = ""
	c := newTestClient(t, cfg,
		WithSigner(replaySigner{address: common.HexToAddress("0xefa7cd2e9bfa38f04af95df90da90b194e4ed191"), signature: sig}),
		WithSaltSource(chain.FixedSalt(327896216)),
	)

	req, err := c.PrepareOrder(OrderArgs{
		TokenID:   fixtureTokenID,
		Price:     "0.85",
		Size:      "0.1",
		Side:      OrderSideBuy,
		OrderType: OrderTypeGTC,
	})
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, PathPostOrder, req.Path)

	recorded := `{"order":` + fixtureOrderJSON + `,"owner":"` + testAPIKey + `","orderType":"GTC"}`

	// Only the address checksum casing differs from the recorded body.
	checker := conformance.NewChecker(conformance.PostOrderSchema(), zap.NewNop(), conformance.WithStrictKeyOrder())
	report, err := checker.Compare([]byte(recorded), req.Body)
	require.NoError(t, err)
	assert.True(t, report.OverallMatch, report.String())

	require.NoError(t, c.VerifyRequest(req))
	assert.Equal(t, []string{"1765824355"}, req.Header[auth.HeaderTimestamp])
	assert.Equal(t, []string{testAPIKey}, req.Header[auth.HeaderAPIKey])
	assert.Equal(t, []string{"passphrase"}, req.Header[auth.HeaderPassphrase])

	// The same signature over the recorded body bytes is the recorded digest.
	digest, err := auth.BuildAuthHeader(testSecret, "1765824355", "POST", "/order", recorded)
	require.NoError(t, err)
	assert.Equal(t, "fPOEaxvya1QbVkoRPNrv-kxPjv16Ni_mxrqMgCzm-hc=", digest)
}

func TestClient_CreateOrder_SignsForConfiguredExchange(t *testing.T) {
	cfg := testConfig()
	cfg.NegRisk = true
	c := newTestClient(t, cfg)

	signed, err := c.CreateOrder(OrderArgs{TokenID: "123456", Price: "0.5", Size: "100", Side: OrderSideSell})
	require.NoError(t, err)
	assert.Equal(t, testAddress, signed.Maker)
	assert.Equal(t, testAddress, signed.Signer)
	assert.Equal(t, chain.ZeroAddress, signed.Taker)
	assert.Equal(t, "100000000", signed.MakerAmount.String())
	assert.Equal(t, "50000000", signed.TakerAmount.String())
	assert.NotZero(t, signed.Salt)

	require.NoError(t, c.Builder().VerifyOrder(signed))

	standard := chain.NewEIP712Domain(chain.PolymarketDomainName, cfg.Domain().ChainID, common.HexToAddress(DefaultContractAddresses[ChainIDPolygonMainnet].Exchange))
	assert.True(t, errors.Is(chain.VerifySignature(standard, signed), chain.ErrSignerMismatch))
}

func TestClient_CreateOrder_Funder(t *testing.T) {
	cfg := testConfig()
	cfg.Funder = "0xefa7cd2e9bfa38f04af95df90da90b194e4ed191"
	cfg.SignatureType = chain.SignatureTypePolyGnosisSafe
	c := newTestClient(t, cfg)

	signed, err := c.CreateOrder(OrderArgs{TokenID: "1", Price: "0.5", Size: "10", Side: OrderSideBuy})
	require.NoError(t, err)
	assert.Equal(t, cfg.Funder, signed.Maker)
	assert.Equal(t, testAddress, signed.Signer)
	assert.Equal(t, chain.SignatureTypePolyGnosisSafe, signed.SignatureType)
	require.NoError(t, c.Builder().VerifyOrder(signed))
}

func TestClient_CreateOrder_Expiration(t *testing.T) {
	c := newTestClient(t, testConfig())
	args := OrderArgs{TokenID: "1", Price: "0.5", Size: "10", Side: OrderSideBuy}

	args.OrderType = OrderTypeGTD
	_, err := c.CreateOrder(args)
	assert.True(t, errors.Is(err, ErrInvalidParam))

	args.Expiration = "1765900000"
	signed, err := c.CreateOrder(args)
	require.NoError(t, err)
	assert.Equal(t, "1765900000", signed.Expiration.String())

	args.OrderType = OrderTypeFOK
	_, err = c.CreateOrder(args)
	assert.True(t, errors.Is(err, ErrInvalidParam))

	_, err = c.CreateOrder(OrderArgs{Price: "0.5", Size: "10"})
	assert.True(t, errors.Is(err, ErrInvalidParam))
}

func TestClient_PrepareDeriveAPIKey(t *testing.T) {
	c := newTestClient(t, testConfig())

	req, err := c.PrepareDeriveAPIKey(0)
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, PathDeriveAPIKey, req.Path)
	assert.Equal(t, []string{testAddress}, req.Header[auth.HeaderAddress])
	assert.Equal(t, []string{"0"}, req.Header[auth.HeaderNonce])

	hash, err := chain.TypedDataHash(chain.ClobAuthTypedData(cfgChainID(), common.HexToAddress(testAddress), "1765824355", 0))
	require.NoError(t, err)
	raw, err := chain.DecodeSignature(req.Header[auth.HeaderSignature][0])
	require.NoError(t, err)
	recovered, err := chain.RecoverSigner(hash, raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), recovered)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.ChainID = 1
	_, err = NewClient(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.PrivateKey = ""
	_, err = NewClient(cfg, nil)
	assert.True(t, errors.Is(err, ErrInvalidParam))

	cfg = testConfig()
	cfg.Credentials = auth.Credentials{}
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)
	_, err = c.PrepareRequest("GET", "/orders", nil)
	assert.True(t, errors.Is(err, ErrInvalidParam))
}

func cfgChainID() *big.Int {
	return big.NewInt(int64(ChainIDPolygonMainnet))
}
