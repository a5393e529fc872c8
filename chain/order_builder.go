package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OrderBuilder builds, encodes and signs orders for one exchange domain.
// It holds no mutable state and is safe for concurrent use.
type OrderBuilder struct {
	domain *EIP712Domain
	salts  SaltSource
	logger *zap.Logger
}

// NewOrderBuilder creates a new OrderBuilder. A nil salt source defaults to
// RandomSalt and a nil logger to a no-op logger.
func NewOrderBuilder(domain *EIP712Domain, salts SaltSource, logger *zap.Logger) (*OrderBuilder, error) {
	if domain == nil || domain.ChainID == nil {
		return nil, errors.New("order builder requires a domain with a chain id")
	}
	if salts == nil {
		salts = RandomSalt{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderBuilder{
		domain: domain,
		salts:  salts,
		logger: logger,
	}, nil
}

// Domain returns the EIP712 domain orders are signed under
func (ob *OrderBuilder) Domain() *EIP712Domain {
	return ob.domain
}

// BuildOrder validates data and returns an unsigned order with a fresh salt.
func (ob *OrderBuilder) BuildOrder(data *OrderData) (*Order, error) {
	salt, err := ob.salts.NextSalt()
	if err != nil {
		return nil, err
	}
	return ob.BuildOrderWithSalt(data, salt)
}

// BuildOrderWithSalt is BuildOrder with a caller-chosen salt.
func (ob *OrderBuilder) BuildOrderWithSalt(data *OrderData, salt uint64) (*Order, error) {
	if err := ob.validateInputs(data); err != nil {
		return nil, err
	}

	signer := data.Signer
	if signer == "" {
		signer = data.Maker
	}
	taker := data.Taker
	if taker == "" {
		taker = ZeroAddress
	}
	for _, a := range []struct{ field, value string }{
		{"maker", data.Maker},
		{"signer", signer},
		{"taker", taker},
	} {
		if err := ValidateAddress(a.field, a.value); err != nil {
			return nil, err
		}
	}

	amounts := make([]*big.Int, 0, 6)
	for _, f := range []struct {
		field, value string
		optional     bool
	}{
		{"tokenId", data.TokenID, false},
		{"makerAmount", data.MakerAmount, false},
		{"takerAmount", data.TakerAmount, false},
		{"expiration", data.Expiration, true},
		{"nonce", data.Nonce, true},
		{"feeRateBps", data.FeeRateBps, true},
	} {
		value := f.value
		if value == "" && f.optional {
			value = "0"
		}
		n, err := ParseAmount(f.field, value)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, n)
	}

	order := &Order{
		Salt:          salt,
		Maker:         data.Maker,
		Signer:        signer,
		Taker:         taker,
		TokenID:       amounts[0],
		MakerAmount:   amounts[1],
		TakerAmount:   amounts[2],
		Expiration:    amounts[3],
		Nonce:         amounts[4],
		FeeRateBps:    amounts[5],
		Side:          data.Side,
		SignatureType: data.SignatureType,
	}

	ob.logger.Sugar().Debugw("Built order",
		"maker", order.Maker,
		"token_id", order.TokenID.String(),
		"side", order.Side.String(),
		"signature_type", order.SignatureType.String(),
	)
	return order, nil
}

// EncodeForSigning returns the EIP712 preimage the external signer must hash
// and sign.
func (ob *OrderBuilder) EncodeForSigning(order *Order) ([]byte, error) {
	return EncodeOrderForSigning(ob.domain, order)
}

// SigningHash returns keccak256(EncodeForSigning(order)).
func (ob *OrderBuilder) SigningHash(order *Order) (common.Hash, error) {
	preimage, err := ob.EncodeForSigning(order)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(preimage), nil
}

// SignOrder signs an order using EIP712
func (ob *OrderBuilder) SignOrder(order *Order, signer Signer) (*SignedOrder, error) {
	hash, err := ob.SigningHash(order)
	if err != nil {
		return nil, err
	}
	signature, err := signer.SignHash(hash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign order")
	}
	return AttachSignature(order, signature)
}

// BuildSignedOrder builds and signs an order
func (ob *OrderBuilder) BuildSignedOrder(data *OrderData, signer Signer) (*SignedOrder, error) {
	order, err := ob.BuildOrder(data)
	if err != nil {
		return nil, err
	}
	return ob.SignOrder(order, signer)
}

// VerifyOrder checks that the signature on signed was produced by its signer
// address under this builder's domain.
func (ob *OrderBuilder) VerifyOrder(signed *SignedOrder) error {
	return VerifySignature(ob.domain, signed)
}

func (ob *OrderBuilder) validateInputs(data *OrderData) error {
	if data == nil {
		return errors.New("order data is required")
	}
	if data.Maker == "" {
		return &ValidationError{Field: "maker", Err: ErrInvalidAddress}
	}
	if !data.Side.Valid() {
		return &ValidationError{Field: "side", Value: data.Side.String(), Err: ErrInvalidSide}
	}
	if !data.SignatureType.Valid() {
		return &ValidationError{Field: "signatureType", Value: data.SignatureType.String(), Err: ErrInvalidSignatureType}
	}
	return nil
}
