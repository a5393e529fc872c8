package chain

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// orderJSON fixes the wire field order. Struct field order is the JSON key
// order, so it must not be rearranged.
type orderJSON struct {
	Salt          uint64 `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          string `json:"side"`
	SignatureType uint8  `json:"signatureType"`
	Signature     string `json:"signature,omitempty"`
}

// orderJSONIn mirrors orderJSON with pointers so that absent keys are detected.
type orderJSONIn struct {
	Salt          *uint64 `json:"salt"`
	Maker         *string `json:"maker"`
	Signer        *string `json:"signer"`
	Taker         *string `json:"taker"`
	TokenID       *string `json:"tokenId"`
	MakerAmount   *string `json:"makerAmount"`
	TakerAmount   *string `json:"takerAmount"`
	Expiration    *string `json:"expiration"`
	Nonce         *string `json:"nonce"`
	FeeRateBps    *string `json:"feeRateBps"`
	Side          *string `json:"side"`
	SignatureType *uint8  `json:"signatureType"`
	Signature     *string `json:"signature"`
}

func (o *Order) toJSON() (orderJSON, error) {
	if err := o.Validate(); err != nil {
		return orderJSON{}, err
	}
	return orderJSON{
		Salt:          o.Salt,
		Maker:         o.Maker,
		Signer:        o.Signer,
		Taker:         o.Taker,
		TokenID:       o.TokenID.String(),
		MakerAmount:   o.MakerAmount.String(),
		TakerAmount:   o.TakerAmount.String(),
		Expiration:    o.Expiration.String(),
		Nonce:         o.Nonce.String(),
		FeeRateBps:    o.FeeRateBps.String(),
		Side:          o.Side.String(),
		SignatureType: uint8(o.SignatureType),
	}, nil
}

// MarshalJSON encodes the unsigned order; the signature key is omitted.
func (o Order) MarshalJSON() ([]byte, error) {
	wire, err := o.toJSON()
	if err != nil {
		return nil, err
	}
	return marshalCompact(wire)
}

// MarshalJSON encodes the signed order in transport form.
func (s SignedOrder) MarshalJSON() ([]byte, error) {
	raw, err := DecodeSignature(s.Signature)
	if err != nil {
		return nil, err
	}
	wire, err := s.Order.toJSON()
	if err != nil {
		return nil, err
	}
	wire.Signature = encodeSignature(raw)
	return marshalCompact(wire)
}

// UnmarshalJSON decodes a transport body; see DeserializeTransportBody.
func (s *SignedOrder) UnmarshalJSON(data []byte) error {
	decoded, err := DeserializeTransportBody(data)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// SerializeForTransport produces the exact JSON text sent as the order body.
func SerializeForTransport(order *SignedOrder) ([]byte, error) {
	if order == nil {
		return nil, errors.New("order is required")
	}
	return order.MarshalJSON()
}

// transportKeys lists the exact key names of a transport body.
var transportKeys = map[string]bool{
	"salt": true, "maker": true, "signer": true, "taker": true, "tokenId": true,
	"makerAmount": true, "takerAmount": true, "expiration": true, "nonce": true,
	"feeRateBps": true, "side": true, "signatureType": true, "signature": true,
}

// checkTransportKeys requires data to be a single JSON object whose keys are
// distinct, exact-case transport keys.
func checkTransportKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "failed to decode order")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("failed to decode order: expected a JSON object")
	}

	seen := make(map[string]bool, len(transportKeys))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "failed to decode order")
		}
		key := tok.(string)
		if !transportKeys[key] {
			return errors.Errorf("failed to decode order: unknown key %q", key)
		}
		if seen[key] {
			return errors.Errorf("failed to decode order: duplicate key %q", key)
		}
		seen[key] = true

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "failed to decode order: value of %q", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "failed to decode order")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("failed to decode order: trailing data after object")
	}
	return nil
}

// DeserializeTransportBody parses a signed order. Unknown, duplicate or
// miscased keys, missing keys, wrong JSON types and out-of-range values are
// rejected. The signature is normalized to lowercase 0x-prefixed hex.
func DeserializeTransportBody(data []byte) (*SignedOrder, error) {
	if err := checkTransportKeys(data); err != nil {
		return nil, err
	}

	var in orderJSONIn
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, errors.Wrap(err, "failed to decode order")
	}

	missing := func(field string) error {
		return errors.Errorf("failed to decode order: missing %q", field)
	}
	if in.Salt == nil {
		return nil, missing("salt")
	}
	if in.SignatureType == nil {
		return nil, missing("signatureType")
	}
	if in.Signature == nil {
		return nil, missing("signature")
	}

	strs := []struct {
		field string
		value *string
	}{
		{"maker", in.Maker}, {"signer", in.Signer}, {"taker", in.Taker},
		{"tokenId", in.TokenID}, {"makerAmount", in.MakerAmount}, {"takerAmount", in.TakerAmount},
		{"expiration", in.Expiration}, {"nonce", in.Nonce}, {"feeRateBps", in.FeeRateBps},
		{"side", in.Side},
	}
	for _, s := range strs {
		if s.value == nil {
			return nil, missing(s.field)
		}
	}

	amounts := make([]*big.Int, 0, 6)
	for _, s := range strs[3:9] {
		n, err := ParseAmount(s.field, *s.value)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, n)
	}
	side, err := ParseOrderSide(*in.Side)
	if err != nil {
		return nil, err
	}

	order := Order{
		Salt:          *in.Salt,
		Maker:         *in.Maker,
		Signer:        *in.Signer,
		Taker:         *in.Taker,
		TokenID:       amounts[0],
		MakerAmount:   amounts[1],
		TakerAmount:   amounts[2],
		Expiration:    amounts[3],
		Nonce:         amounts[4],
		FeeRateBps:    amounts[5],
		Side:          side,
		SignatureType: SignatureType(*in.SignatureType),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	raw, err := DecodeSignature(*in.Signature)
	if err != nil {
		return nil, err
	}
	return &SignedOrder{Order: order, Signature: encodeSignature(raw)}, nil
}

// marshalCompact encodes without HTML escaping so the bytes match other
// implementations' plain JSON writers. Callers embedding the result through
// json.Marshal get it re-escaped; SerializeForTransport returns it as is.
func marshalCompact(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
