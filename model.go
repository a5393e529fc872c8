package clobsign

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/kaifufi/clob-signing-go/chain"
)

// OrderType is the time-in-force of a posted order
type OrderType string

const (
	OrderTypeGTC OrderType = "GTC" // good till cancelled
	OrderTypeGTD OrderType = "GTD" // good till date (uses the order expiration)
	OrderTypeFOK OrderType = "FOK" // fill or kill
	OrderTypeFAK OrderType = "FAK" // fill and kill
)

// Valid reports whether t is a known order type
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeGTC, OrderTypeGTD, OrderTypeFOK, OrderTypeFAK:
		return true
	default:
		return false
	}
}

// Order sides, re-exported for callers that only import this package.
const (
	OrderSideBuy  = chain.OrderSideBuy
	OrderSideSell = chain.OrderSideSell
)

// OrderArgs describes a limit order in human units.
type OrderArgs struct {
	TokenID string
	// Price per share, between MinPrice and MaxPrice.
	Price string
	// Size in shares.
	Size       string
	Side       chain.OrderSide
	FeeRateBps string
	Nonce      string
	// Expiration in unix seconds; empty or "0" means no expiry.
	Expiration string
	Taker      string
	OrderType  OrderType
}

// PostOrderRequest is the body of POST /order.
type PostOrderRequest struct {
	Order     *chain.SignedOrder `json:"order"`
	Owner     string             `json:"owner"`
	OrderType OrderType          `json:"orderType"`
}

// NewPostOrderRequest validates the envelope fields. owner is the API key
// the order is posted under.
func NewPostOrderRequest(order *chain.SignedOrder, owner string, orderType OrderType) (*PostOrderRequest, error) {
	if order == nil {
		return nil, &InvalidParamError{Message: "order is required"}
	}
	if _, err := uuid.Parse(owner); err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("owner must be an API key UUID, got %q", owner), Err: ErrInvalidOwner}
	}
	if orderType == "" {
		orderType = OrderTypeGTC
	}
	if !orderType.Valid() {
		return nil, &InvalidParamError{Message: fmt.Sprintf("unknown order type %q", orderType), Err: ErrInvalidOrderType}
	}
	return &PostOrderRequest{Order: order, Owner: owner, OrderType: orderType}, nil
}

// Body returns the exact JSON text sent and authenticated.
func (r *PostOrderRequest) Body() ([]byte, error) {
	return json.Marshal(r)
}

// PreparedRequest is a fully signed HTTP request that has not been sent.
type PreparedRequest struct {
	Method string
	Path   string
	Body   []byte
	Header http.Header
}
