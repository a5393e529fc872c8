package chain

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SignatureLength is the size of an r||s||v secp256k1 signature.
const SignatureLength = 65

// Signer produces 65-byte r||s||v signatures over a 32-byte hash.
// Implementations own the key material; this package never sees it.
type Signer interface {
	Address() common.Address
	SignHash(hash common.Hash) ([]byte, error)
}

// PrivateKeySigner signs with an in-memory secp256k1 key.
type PrivateKeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewPrivateKeySigner loads a hex private key, with or without the 0x prefix.
func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return NewPrivateKeySignerFromKey(key), nil
}

// NewPrivateKeySignerFromKey wraps an existing key.
func NewPrivateKeySignerFromKey(key *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the address of the signer
func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignHash signs hash and shifts the recovery id to 27/28.
func (s *PrivateKeySigner) SignHash(hash common.Hash) ([]byte, error) {
	signature, err := crypto.Sign(hash.Bytes(), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign hash")
	}
	signature[64] += 27
	return signature, nil
}

// AttachSignature returns a signed copy of order; the input is not modified.
func AttachSignature(order *Order, signature []byte) (*SignedOrder, error) {
	if len(signature) != SignatureLength {
		return nil, &ValidationError{Field: "signature", Value: hexutil.Encode(signature), Err: ErrInvalidSignatureLength}
	}
	return &SignedOrder{
		Order:     *order.Clone(),
		Signature: encodeSignature(signature),
	}, nil
}

// AttachSignatureHex is AttachSignature for a 0x-prefixed hex signature.
func AttachSignatureHex(order *Order, signature string) (*SignedOrder, error) {
	raw, err := DecodeSignature(signature)
	if err != nil {
		return nil, err
	}
	return AttachSignature(order, raw)
}

// DecodeSignature decodes a 0x-prefixed 65-byte hex signature.
func DecodeSignature(signature string) ([]byte, error) {
	raw, err := hexutil.Decode(signature)
	if err != nil {
		return nil, &ValidationError{Field: "signature", Value: signature, Err: ErrInvalidSignature}
	}
	if len(raw) != SignatureLength {
		return nil, &ValidationError{Field: "signature", Value: signature, Err: ErrInvalidSignatureLength}
	}
	return raw, nil
}

func encodeSignature(signature []byte) string {
	return hexutil.Encode(signature)
}

// RecoverSigner returns the address that produced signature over hash.
// Both 0/1 and 27/28 recovery ids are accepted.
func RecoverSigner(hash common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, &ValidationError{Field: "signature", Err: ErrInvalidSignatureLength}
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, &ValidationError{Field: "signature", Value: hexutil.Encode(signature), Err: ErrInvalidSignature}
	}
	return crypto.PubkeyToAddress(*pub), nil
}
