package clobsign

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/clob-signing-go/auth"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names read by ConfigFromEnv
const (
	EnvChainID         = "CLOB_CHAIN_ID"
	EnvAPIKey          = "CLOB_API_KEY"
	EnvAPISecret       = "CLOB_API_SECRET"
	EnvAPIPassphrase   = "CLOB_API_PASSPHRASE"
	EnvPrivateKey      = "CLOB_PRIVATE_KEY"
	EnvHeaderPadding   = "CLOB_HEADER_PADDING"
	EnvNegRisk         = "CLOB_NEG_RISK"
	EnvExchange        = "CLOB_EXCHANGE"
	EnvNegRiskExchange = "CLOB_NEG_RISK_EXCHANGE"
)

// ChainID represents a blockchain chain ID
type ChainID int

const (
	ChainIDPolygonMainnet ChainID = 137   // Polygon PoS mainnet
	ChainIDPolygonAmoy    ChainID = 80002 // Polygon Amoy testnet
	ChainIDBNBMainnet     ChainID = 56    // BNB Chain (BSC) mainnet
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDPolygonMainnet, ChainIDPolygonAmoy, ChainIDBNBMainnet}

// ContractAddresses holds the exchange contracts orders are signed for
type ContractAddresses struct {
	Exchange        string
	NegRiskExchange string
}

// DefaultContractAddresses maps chain IDs to their contract addresses.
// BNB exchanges are listed per quote token by the API and must be configured.
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDPolygonMainnet: {
		Exchange:        "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
		NegRiskExchange: "0xC5d563A36AE78145C45a50134d48A1215220f80a",
	},
	ChainIDPolygonAmoy: {
		Exchange:        "0xdFE02Eb6733538f8Ea35D585af8DE5958AD99E40",
		NegRiskExchange: "0xC5d563A36AE78145C45a50134d48A1215220f80a",
	},
	ChainIDBNBMainnet: {},
}

// DomainName returns the EIP712 domain name of the exchange on chainID
func DomainName(chainID ChainID) string {
	if chainID == ChainIDBNBMainnet {
		return chain.OpinionDomainName
	}
	return chain.PolymarketDomainName
}

// IsSupported reports whether chainID is in SupportedChainIDs
func (c ChainID) IsSupported() bool {
	for _, id := range SupportedChainIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Config holds everything needed to build, sign and authenticate orders.
type Config struct {
	ChainID         ChainID `json:"chainId" yaml:"chainId"`
	Exchange        string  `json:"exchange,omitempty" yaml:"exchange,omitempty"`
	NegRiskExchange string  `json:"negRiskExchange,omitempty" yaml:"negRiskExchange,omitempty"`
	NegRisk         bool    `json:"negRisk" yaml:"negRisk"`

	// HeaderPadding is "keep" (default) or "strip".
	HeaderPadding string `json:"headerPadding,omitempty" yaml:"headerPadding,omitempty"`

	// Funder is the maker address when it differs from the signing key's
	// address (proxy or Safe wallets).
	Funder        string              `json:"funder,omitempty" yaml:"funder,omitempty"`
	SignatureType chain.SignatureType `json:"signatureType" yaml:"signatureType"`

	PrivateKey  string           `json:"-" yaml:"privateKey,omitempty"`
	Credentials auth.Credentials `json:"-" yaml:"credentials,omitempty"`

	Debug bool `json:"debug" yaml:"debug"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from CLOB_* environment variables. The chain
// defaults to Polygon mainnet.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		ChainID:         ChainIDPolygonMainnet,
		Exchange:        os.Getenv(EnvExchange),
		NegRiskExchange: os.Getenv(EnvNegRiskExchange),
		HeaderPadding:   os.Getenv(EnvHeaderPadding),
		PrivateKey:      os.Getenv(EnvPrivateKey),
		Credentials: auth.Credentials{
			APIKey:     os.Getenv(EnvAPIKey),
			Secret:     os.Getenv(EnvAPISecret),
			Passphrase: os.Getenv(EnvAPIPassphrase),
		},
	}
	if v := os.Getenv(EnvChainID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvChainID)
		}
		cfg.ChainID = ChainID(id)
	}
	if v := os.Getenv(EnvNegRisk); v != "" {
		negRisk, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvNegRisk)
		}
		cfg.NegRisk = negRisk
	}
	return cfg, nil
}

// Contracts returns the configured exchange addresses, falling back to the
// chain defaults.
func (c *Config) Contracts() ContractAddresses {
	contracts := DefaultContractAddresses[c.ChainID]
	if c.Exchange != "" {
		contracts.Exchange = c.Exchange
	}
	if c.NegRiskExchange != "" {
		contracts.NegRiskExchange = c.NegRiskExchange
	}
	return contracts
}

// Domain returns the EIP712 domain orders are signed under.
func (c *Config) Domain() *chain.EIP712Domain {
	contracts := c.Contracts()
	return chain.NewExchangeDomain(DomainName(c.ChainID), big.NewInt(int64(c.ChainID)), chain.ExchangeContracts{
		Exchange:        common.HexToAddress(contracts.Exchange),
		NegRiskExchange: common.HexToAddress(contracts.NegRiskExchange),
	}, c.NegRisk)
}

// Padding returns the parsed header padding mode.
func (c *Config) Padding() (auth.PaddingMode, error) {
	return auth.ParsePaddingMode(c.HeaderPadding)
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var allErrors field.ErrorList

	if !c.ChainID.IsSupported() {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("chainId"), c.ChainID, supportedChainIDStrings()))
	}

	contracts := c.Contracts()
	exchangePath, exchange := field.NewPath("exchange"), contracts.Exchange
	if c.NegRisk {
		exchangePath, exchange = field.NewPath("negRiskExchange"), contracts.NegRiskExchange
	}
	if exchange == "" {
		allErrors = append(allErrors, field.Required(exchangePath, fmt.Sprintf("no default exchange for chain %d", c.ChainID)))
	}
	for _, a := range []struct{ path, addr string }{
		{"exchange", c.Exchange},
		{"negRiskExchange", c.NegRiskExchange},
		{"funder", c.Funder},
	} {
		if a.addr != "" && chain.ValidateAddress(a.path, a.addr) != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath(a.path), a.addr, "must be a 0x-prefixed 20-byte hex address"))
		}
	}

	if _, err := c.Padding(); err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("headerPadding"), c.HeaderPadding, []string{"keep", "strip"}))
	}
	if !c.SignatureType.Valid() {
		allErrors = append(allErrors, field.Invalid(field.NewPath("signatureType"), c.SignatureType, "must be 0 (EOA), 1 (POLY_PROXY) or 2 (POLY_GNOSIS_SAFE)"))
	}
	if c.SignatureType != chain.SignatureTypeEOA && c.Funder == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("funder"), "proxy and Safe signature types need the funder address"))
	}

	creds := field.NewPath("credentials")
	if c.Credentials != (auth.Credentials{}) {
		if c.Credentials.APIKey == "" {
			allErrors = append(allErrors, field.Required(creds.Child("apiKey"), ""))
		}
		if c.Credentials.Passphrase == "" {
			allErrors = append(allErrors, field.Required(creds.Child("passphrase"), ""))
		}
		if _, err := auth.DecodeSecret(c.Credentials.Secret); err != nil {
			allErrors = append(allErrors, field.Invalid(creds.Child("secret"), "<redacted>", "must be URL-safe base64"))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func supportedChainIDStrings() []string {
	out := make([]string, 0, len(SupportedChainIDs))
	for _, id := range SupportedChainIDs {
		out = append(out, strconv.Itoa(int(id)))
	}
	return out
}
