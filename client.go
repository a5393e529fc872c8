package clobsign

import (
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/kaifufi/clob-signing-go/auth"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// API paths of the requests the client prepares
const (
	PathPostOrder    = "/order"
	PathCreateAPIKey = "/auth/api-key"
	PathDeriveAPIKey = "/auth/derive-api-key"
)

// Client builds, signs and authenticates CLOB requests. It never performs
// network I/O; callers send the PreparedRequest with their own transport.
type Client struct {
	cfg           Config
	signer        chain.Signer
	builder       *chain.OrderBuilder
	authenticator *auth.Authenticator
	logger        *zap.Logger
	now           func() time.Time
	salts         chain.SaltSource
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithSigner signs with s instead of Config.PrivateKey.
func WithSigner(s chain.Signer) ClientOption {
	return func(c *Client) {
		c.signer = s
	}
}

// WithSaltSource overrides the random salt source.
func WithSaltSource(s chain.SaltSource) ClientOption {
	return func(c *Client) {
		c.salts = s
	}
}

// WithClock overrides the clock used for POLY_TIMESTAMP.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new client from a validated configuration.
func NewClient(cfg *Config, logger *zap.Logger, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, &InvalidParamError{Message: "config is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{cfg: *cfg, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.signer == nil {
		if cfg.PrivateKey == "" {
			return nil, &InvalidParamError{Message: "a private key or signer is required"}
		}
		signer, err := chain.NewPrivateKeySigner(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}

	builder, err := chain.NewOrderBuilder(cfg.Domain(), c.salts, logger)
	if err != nil {
		return nil, err
	}
	c.builder = builder

	padding, _ := cfg.Padding()
	authenticator, err := auth.NewAuthenticator(padding, logger)
	if err != nil {
		return nil, err
	}
	c.authenticator = authenticator

	logger.Sugar().Infow("Created CLOB client",
		"chainId", cfg.ChainID,
		"exchange", builder.Domain().VerifyingContract.Hex(),
		"negRisk", cfg.NegRisk,
		"signer", c.signer.Address().Hex(),
	)
	return c, nil
}

// Address returns the maker address: the funder when configured, otherwise
// the signer.
func (c *Client) Address() string {
	if c.cfg.Funder != "" {
		return c.cfg.Funder
	}
	return c.signer.Address().Hex()
}

// Builder returns the order builder bound to the configured exchange
func (c *Client) Builder() *chain.OrderBuilder {
	return c.builder
}

// CreateOrder converts args to base units, builds the order and signs it.
func (c *Client) CreateOrder(args OrderArgs) (*chain.SignedOrder, error) {
	if args.TokenID == "" {
		return nil, &InvalidParamError{Message: "token_id must be a non-empty string"}
	}
	amounts, err := CalculateOrderAmounts(args.Price, args.Size, args.Side)
	if err != nil {
		return nil, err
	}

	expiration := args.Expiration
	if expiration == "" {
		expiration = "0"
	}
	if args.OrderType == OrderTypeGTD && expiration == "0" {
		return nil, &InvalidParamError{Message: "GTD orders need an expiration"}
	}
	if args.OrderType != "" && args.OrderType != OrderTypeGTD && expiration != "0" {
		return nil, &InvalidParamError{Message: fmt.Sprintf("only GTD orders may expire, got %s with expiration %s", args.OrderType, expiration)}
	}

	signed, err := c.builder.BuildSignedOrder(&chain.OrderData{
		Maker:         c.Address(),
		Signer:        c.signer.Address().Hex(),
		Taker:         args.Taker,
		TokenID:       args.TokenID,
		MakerAmount:   amounts.MakerAmount.String(),
		TakerAmount:   amounts.TakerAmount.String(),
		Expiration:    expiration,
		Nonce:         args.Nonce,
		FeeRateBps:    args.FeeRateBps,
		Side:          args.Side,
		SignatureType: c.cfg.SignatureType,
	}, c.signer)
	if err != nil {
		return nil, err
	}

	c.logger.Sugar().Debugw("Created signed order",
		"tokenId", args.TokenID,
		"side", args.Side.String(),
		"price", args.Price,
		"size", args.Size,
		"makerAmount", amounts.MakerAmount.String(),
		"takerAmount", amounts.TakerAmount.String(),
	)
	return signed, nil
}

// PrepareOrder creates and signs an order and wraps it in an authenticated
// POST /order request.
func (c *Client) PrepareOrder(args OrderArgs) (*PreparedRequest, error) {
	signed, err := c.CreateOrder(args)
	if err != nil {
		return nil, err
	}
	return c.PrepareSignedOrder(signed, args.OrderType)
}

// PrepareSignedOrder wraps an already signed order in an authenticated
// POST /order request.
func (c *Client) PrepareSignedOrder(order *chain.SignedOrder, orderType OrderType) (*PreparedRequest, error) {
	req, err := NewPostOrderRequest(order, c.cfg.Credentials.APIKey, orderType)
	if err != nil {
		return nil, err
	}
	body, err := req.Body()
	if err != nil {
		return nil, err
	}
	return c.PrepareRequest(http.MethodPost, PathPostOrder, body)
}

// PrepareRequest attaches L2 headers to an arbitrary API request.
func (c *Client) PrepareRequest(method, path string, body []byte) (*PreparedRequest, error) {
	if c.cfg.Credentials == (auth.Credentials{}) {
		return nil, &InvalidParamError{Message: "API credentials are required for authenticated requests"}
	}
	timestamp := auth.TimestampFromUnix(c.now().Unix())
	header, err := c.authenticator.L2Headers(c.signer.Address().Hex(), c.cfg.Credentials, timestamp, method, path, string(body))
	if err != nil {
		return nil, err
	}
	return &PreparedRequest{Method: method, Path: path, Body: body, Header: header}, nil
}

// PrepareCreateAPIKey returns the wallet-authenticated request that issues
// new API credentials.
func (c *Client) PrepareCreateAPIKey(nonce uint64) (*PreparedRequest, error) {
	return c.prepareL1(http.MethodPost, PathCreateAPIKey, nonce)
}

// PrepareDeriveAPIKey returns the wallet-authenticated request that returns
// the credentials previously issued for nonce.
func (c *Client) PrepareDeriveAPIKey(nonce uint64) (*PreparedRequest, error) {
	return c.prepareL1(http.MethodGet, PathDeriveAPIKey, nonce)
}

func (c *Client) prepareL1(method, path string, nonce uint64) (*PreparedRequest, error) {
	timestamp := auth.TimestampFromUnix(c.now().Unix())
	header, err := auth.L1Headers(c.signer, big.NewInt(int64(c.cfg.ChainID)), timestamp, nonce)
	if err != nil {
		return nil, err
	}
	return &PreparedRequest{Method: method, Path: path, Header: header}, nil
}

// VerifyRequest checks a prepared request's L2 signature against the
// configured credentials.
func (c *Client) VerifyRequest(req *PreparedRequest) error {
	return c.authenticator.Verify(auth.AuthContext{
		Secret:    c.cfg.Credentials.Secret,
		Timestamp: headerValue(req.Header, auth.HeaderTimestamp),
		Method:    req.Method,
		Path:      req.Path,
		Body:      string(req.Body),
	}, headerValue(req.Header, auth.HeaderSignature))
}

func headerValue(h http.Header, key string) string {
	if v := h[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
