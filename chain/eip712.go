package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EIP712 domain names of the supported exchanges
const (
	PolymarketDomainName = "Polymarket CTF Exchange"
	OpinionDomainName    = "OPINION CTF Exchange"
	EIP712DomainVersion  = "1"
)

// Pre-computed type hashes using keccak256
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	// Order(uint256 salt,address maker,address signer,address taker,uint256 tokenId,uint256 makerAmount,uint256 takerAmount,uint256 expiration,uint256 nonce,uint256 feeRateBps,uint8 side,uint8 signatureType)
	OrderTypeHash = crypto.Keccak256Hash([]byte(
		"Order(uint256 salt,address maker,address signer,address taker,uint256 tokenId,uint256 makerAmount,uint256 takerAmount,uint256 expiration,uint256 nonce,uint256 feeRateBps,uint8 side,uint8 signatureType)",
	))
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
	addressType, _ = abi.NewType("address", "", nil)

	domainArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	orderArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint256Type}, // salt
		{Type: addressType}, // maker
		{Type: addressType}, // signer
		{Type: addressType}, // taker
		{Type: uint256Type}, // tokenId
		{Type: uint256Type}, // makerAmount
		{Type: uint256Type}, // takerAmount
		{Type: uint256Type}, // expiration
		{Type: uint256Type}, // nonce
		{Type: uint256Type}, // feeRateBps
		{Type: uint8Type},   // side
		{Type: uint8Type},   // signatureType
	}
)

// EIP712Domain represents the EIP712 domain separator data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates a domain for the named exchange deployment
func NewEIP712Domain(name string, chainID *big.Int, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              name,
		Version:           EIP712DomainVersion,
		ChainID:           new(big.Int).Set(chainID),
		VerifyingContract: verifyingContract,
	}
}

// Hash computes the domain separator:
// keccak256(typeHash ++ keccak256(name) ++ keccak256(version) ++ chainId ++ verifyingContract)
func (d *EIP712Domain) Hash() (common.Hash, error) {
	encoded, err := domainArguments.Pack(
		EIP712DomainTypeHash,
		crypto.Keccak256Hash([]byte(d.Name)),
		crypto.Keccak256Hash([]byte(d.Version)),
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode domain separator")
	}
	return crypto.Keccak256Hash(encoded), nil
}

// OrderTypedData is the ABI view of an order used for EIP712 hashing
type OrderTypedData struct {
	Salt          *big.Int
	Maker         common.Address
	Signer        common.Address
	Taker         common.Address
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          uint8
	SignatureType uint8
}

// Hash computes the struct hash for the order
func (o *OrderTypedData) Hash() (common.Hash, error) {
	encoded, err := orderArguments.Pack(
		OrderTypeHash,
		o.Salt,
		o.Maker,
		o.Signer,
		o.Taker,
		o.TokenID,
		o.MakerAmount,
		o.TakerAmount,
		o.Expiration,
		o.Nonce,
		o.FeeRateBps,
		o.Side,
		o.SignatureType,
	)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode order struct")
	}
	return crypto.Keccak256Hash(encoded), nil
}

// OrderToTypedData converts a validated Order into its ABI view. Addresses are
// decoded from hex, so their letter case has no effect on the encoding.
func OrderToTypedData(order *Order) (*OrderTypedData, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &OrderTypedData{
		Salt:          new(big.Int).SetUint64(order.Salt),
		Maker:         common.HexToAddress(order.Maker),
		Signer:        common.HexToAddress(order.Signer),
		Taker:         common.HexToAddress(order.Taker),
		TokenID:       order.TokenID,
		MakerAmount:   order.MakerAmount,
		TakerAmount:   order.TakerAmount,
		Expiration:    order.Expiration,
		Nonce:         order.Nonce,
		FeeRateBps:    order.FeeRateBps,
		Side:          uint8(order.Side),
		SignatureType: uint8(order.SignatureType),
	}, nil
}

// EncodeOrderForSigning returns the EIP712 preimage
// "\x19\x01" ++ domainSeparator ++ structHash whose keccak256 is signed.
func EncodeOrderForSigning(domain *EIP712Domain, order *Order) ([]byte, error) {
	typed, err := OrderToTypedData(order)
	if err != nil {
		return nil, err
	}
	domainSeparator, err := domain.Hash()
	if err != nil {
		return nil, err
	}
	structHash, err := typed.Hash()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)
	return data, nil
}

// CreateOrderSignHash creates the final EIP712 hash to be signed
func CreateOrderSignHash(domain *EIP712Domain, order *Order) (common.Hash, error) {
	preimage, err := EncodeOrderForSigning(domain, order)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(preimage), nil
}
