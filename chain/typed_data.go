package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// ClobAuth domain and attestation text used for L1 (wallet) authentication
const (
	ClobAuthDomainName = "ClobAuthDomain"
	ClobAuthMessage    = "This message attests that I control the given wallet"
)

var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "salt", Type: "uint256"},
		{Name: "maker", Type: "address"},
		{Name: "signer", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "makerAmount", Type: "uint256"},
		{Name: "takerAmount", Type: "uint256"},
		{Name: "expiration", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "feeRateBps", Type: "uint256"},
		{Name: "side", Type: "uint8"},
		{Name: "signatureType", Type: "uint8"},
	},
}

var clobAuthTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	"ClobAuth": {
		{Name: "address", Type: "address"},
		{Name: "timestamp", Type: "string"},
		{Name: "nonce", Type: "uint256"},
		{Name: "message", Type: "string"},
	},
}

// ToTypedData renders the order as eth_signTypedData_v4 input for remote
// signers. Its hash equals CreateOrderSignHash for the same domain.
func ToTypedData(domain *EIP712Domain, order *Order) (apitypes.TypedData, error) {
	if err := order.Validate(); err != nil {
		return apitypes.TypedData{}, err
	}
	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(domain.ChainID)),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"salt":          new(big.Int).SetUint64(order.Salt),
			"maker":         order.Maker,
			"signer":        order.Signer,
			"taker":         order.Taker,
			"tokenId":       new(big.Int).Set(order.TokenID),
			"makerAmount":   new(big.Int).Set(order.MakerAmount),
			"takerAmount":   new(big.Int).Set(order.TakerAmount),
			"expiration":    new(big.Int).Set(order.Expiration),
			"nonce":         new(big.Int).Set(order.Nonce),
			"feeRateBps":    new(big.Int).Set(order.FeeRateBps),
			"side":          big.NewInt(int64(order.Side)),
			"signatureType": big.NewInt(int64(order.SignatureType)),
		},
	}, nil
}

// ClobAuthTypedData builds the L1 attestation signed when creating or deriving
// API credentials.
func ClobAuthTypedData(chainID *big.Int, address common.Address, timestamp string, nonce uint64) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       clobAuthTypes,
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    ClobAuthDomainName,
			Version: EIP712DomainVersion,
			ChainId: (*math.HexOrDecimal256)(new(big.Int).Set(chainID)),
		},
		Message: apitypes.TypedDataMessage{
			"address":   address.Hex(),
			"timestamp": timestamp,
			"nonce":     new(big.Int).SetUint64(nonce),
			"message":   ClobAuthMessage,
		},
	}
}

// TypedDataHash returns the EIP712 signing hash of arbitrary typed data.
func TypedDataHash(td apitypes.TypedData) (common.Hash, error) {
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed to hash %s typed data", td.PrimaryType)
	}
	return common.BytesToHash(hash), nil
}

// SignClobAuth signs the L1 attestation and returns the 0x-prefixed signature.
func SignClobAuth(signer Signer, chainID *big.Int, timestamp string, nonce uint64) (string, error) {
	hash, err := TypedDataHash(ClobAuthTypedData(chainID, signer.Address(), timestamp, nonce))
	if err != nil {
		return "", err
	}
	sig, err := signer.SignHash(hash)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign clob auth")
	}
	if len(sig) != SignatureLength {
		return "", &ValidationError{Field: "signature", Err: ErrInvalidSignatureLength}
	}
	return encodeSignature(sig), nil
}
