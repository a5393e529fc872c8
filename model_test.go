package clobsign

import (
	"errors"
	"testing"

	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureOrderJSON = `{"salt":327896216,"maker":"0xefa7cd2e9bfa38f04af95df90da90b194e4ed191","signer":"0xefa7cd2e9bfa38f04af95df90da90b194e4ed191","taker":"0x0000000000000000000000000000000000000000","tokenId":"59123046651639406043770531564026866824584320057748742767920960374229735119462","makerAmount":"85000","takerAmount":"100000","expiration":"0","nonce":"0","feeRateBps":"0","side":"BUY","signatureType":0,"signature":"0x6c96640200869044e2d77ffb01e69209a415d4818a122f297362248ca69246a91c83a52829dd5946e8d0ba36c8afef55592d43b0a8b19327e486846b6f5ec0481c"}`

func TestPostOrderRequest_Body(t *testing.T) {
	order, err := chain.DeserializeTransportBody([]byte(fixtureOrderJSON))
	require.NoError(t, err)

	req, err := NewPostOrderRequest(order, testAPIKey, "")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeGTC, req.OrderType)

	body, err := req.Body()
	require.NoError(t, err)
	assert.Equal(t, `{"order":`+fixtureOrderJSON+`,"owner":"`+testAPIKey+`","orderType":"GTC"}`, string(body))
}

func TestNewPostOrderRequest_Rejects(t *testing.T) {
	order, err := chain.DeserializeTransportBody([]byte(fixtureOrderJSON))
	require.NoError(t, err)

	_, err = NewPostOrderRequest(order, "api-key", OrderTypeGTC)
	assert.True(t, errors.Is(err, ErrInvalidOwner))

	_, err = NewPostOrderRequest(order, testAPIKey, "IOC")
	assert.True(t, errors.Is(err, ErrInvalidOrderType))

	_, err = NewPostOrderRequest(nil, testAPIKey, OrderTypeGTC)
	assert.True(t, errors.Is(err, ErrInvalidParam))

	for _, ot := range []OrderType{OrderTypeGTC, OrderTypeGTD, OrderTypeFOK, OrderTypeFAK} {
		_, err := NewPostOrderRequest(order, testAPIKey, ot)
		assert.NoError(t, err)
	}
}
