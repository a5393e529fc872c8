package auth

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/pkg/errors"
)

// Header names used by the CLOB API
const (
	HeaderAddress    = "POLY_ADDRESS"
	HeaderSignature  = "POLY_SIGNATURE"
	HeaderTimestamp  = "POLY_TIMESTAMP"
	HeaderNonce      = "POLY_NONCE"
	HeaderAPIKey     = "POLY_API_KEY"
	HeaderPassphrase = "POLY_PASSPHRASE"
)

// Credentials are the L2 API key triple issued by the exchange.
type Credentials struct {
	APIKey     string `json:"apiKey" yaml:"apiKey"`
	Secret     string `json:"secret" yaml:"secret"`
	Passphrase string `json:"passphrase" yaml:"passphrase"`
}

// L2Headers returns the header set for an API-key authenticated request.
// address is the wallet the credentials were issued to.
func (a *Authenticator) L2Headers(address string, creds Credentials, timestamp, method, path, body string) (http.Header, error) {
	if creds.APIKey == "" || creds.Passphrase == "" {
		return nil, errors.New("api key and passphrase are required")
	}
	sig, err := a.Sign(AuthContext{
		Secret:    creds.Secret,
		Timestamp: timestamp,
		Method:    method,
		Path:      path,
		Body:      body,
	})
	if err != nil {
		return nil, err
	}
	ts, _ := CanonicalTimestamp(timestamp)

	h := make(http.Header, 5)
	setRaw(h, HeaderAddress, address)
	setRaw(h, HeaderSignature, sig)
	setRaw(h, HeaderTimestamp, ts)
	setRaw(h, HeaderAPIKey, creds.APIKey)
	setRaw(h, HeaderPassphrase, creds.Passphrase)
	return h, nil
}

// L1Headers returns the header set for wallet-authenticated requests
// (creating or deriving API keys). The signature is an EIP712 ClobAuth
// attestation produced by signer.
func L1Headers(signer chain.Signer, chainID *big.Int, timestamp string, nonce uint64) (http.Header, error) {
	ts, err := CanonicalTimestamp(timestamp)
	if err != nil {
		return nil, err
	}
	sig, err := chain.SignClobAuth(signer, chainID, ts, nonce)
	if err != nil {
		return nil, err
	}

	h := make(http.Header, 4)
	setRaw(h, HeaderAddress, signer.Address().Hex())
	setRaw(h, HeaderSignature, sig)
	setRaw(h, HeaderTimestamp, ts)
	setRaw(h, HeaderNonce, strconv.FormatUint(nonce, 10))
	return h, nil
}

// setRaw stores the header under its exact name; http.Header.Set would
// canonicalize POLY_API_KEY to Poly_api_key.
func setRaw(h http.Header, key, value string) {
	h[key] = []string{value}
}
