package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ExchangeContracts holds the verifying contracts of one deployment.
type ExchangeContracts struct {
	Exchange        common.Address
	NegRiskExchange common.Address
}

// VerifyingContract picks the exchange that settles the market.
func (c ExchangeContracts) VerifyingContract(negRisk bool) common.Address {
	if negRisk {
		return c.NegRiskExchange
	}
	return c.Exchange
}

// NewExchangeDomain returns the signing domain of the standard or neg-risk
// exchange of a deployment.
func NewExchangeDomain(name string, chainID *big.Int, contracts ExchangeContracts, negRisk bool) *EIP712Domain {
	return NewEIP712Domain(name, chainID, contracts.VerifyingContract(negRisk))
}

// VerifySignature recovers the address behind signed.Signature under domain
// and compares it with the order's signer field.
func VerifySignature(domain *EIP712Domain, signed *SignedOrder) error {
	raw, err := DecodeSignature(signed.Signature)
	if err != nil {
		return err
	}
	hash, err := CreateOrderSignHash(domain, &signed.Order)
	if err != nil {
		return err
	}
	recovered, err := RecoverSigner(hash, raw)
	if err != nil {
		return err
	}
	if recovered != common.HexToAddress(signed.Signer) {
		return &ValidationError{Field: "signature", Value: recovered.Hex(), Err: ErrSignerMismatch}
	}
	return nil
}
