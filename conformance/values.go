package conformance

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/pkg/errors"
)

// jsonType names the JSON type of a decoded value.
func jsonType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, int, int64, uint64:
		return "number"
	case *object:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func maxValue(bits int) *big.Int {
	if bits <= 0 {
		bits = 256
	}
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
}

// integerValue returns the value of a JSON integer. Strings are rejected.
func integerValue(v interface{}) (*big.Int, error) {
	switch t := v.(type) {
	case json.Number:
		n, ok := new(big.Int).SetString(t.String(), 10)
		if !ok {
			return nil, errors.Errorf("%s is not an integer", t)
		}
		return n, nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return nil, errors.Errorf("%v is not an integer", t)
		}
		n, _ := big.NewFloat(t).Int(nil)
		return n, nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	default:
		return nil, errors.Errorf("expected number, got %s", jsonType(v))
	}
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("expected string, got %s", jsonType(v))
	}
	return s, nil
}

func inValues(spec FieldSpec, s string) error {
	if len(spec.Values) == 0 {
		return nil
	}
	for _, allowed := range spec.Values {
		if s == allowed {
			return nil
		}
	}
	return errors.Errorf("%q is not one of %s", s, strings.Join(spec.Values, ", "))
}

// canonical type-checks v against spec and returns a value that compares
// equal for semantically equal inputs.
func canonical(spec FieldSpec, v interface{}) (string, error) {
	switch spec.Kind {
	case KindDecimalString:
		s, err := asString(v)
		if err != nil {
			return "", err
		}
		n, err := chain.ParseAmount(spec.Name, s)
		if err != nil {
			return "", err
		}
		if n.Cmp(maxValue(spec.MaxBits)) > 0 {
			return "", errors.Errorf("%s exceeds %d bits", s, spec.MaxBits)
		}
		return n.String(), nil

	case KindInteger:
		n, err := integerValue(v)
		if err != nil {
			return "", err
		}
		if n.Sign() < 0 || n.Cmp(maxValue(spec.MaxBits)) > 0 {
			return "", errors.Errorf("%s is out of range", n)
		}
		return n.String(), inValues(spec, n.String())

	case KindAddress:
		s, err := asString(v)
		if err != nil {
			return "", err
		}
		if err := chain.ValidateAddress(spec.Name, s); err != nil {
			return "", err
		}
		return common.HexToAddress(s).Hex(), nil

	case KindEnum:
		s, err := asString(v)
		if err != nil {
			return "", err
		}
		return s, inValues(spec, s)

	case KindHex:
		s, err := asString(v)
		if err != nil {
			return "", err
		}
		raw, err := hexutil.Decode(s)
		if err != nil {
			return "", errors.Wrapf(err, "invalid hex %q", s)
		}
		if spec.ByteLength > 0 && len(raw) != spec.ByteLength {
			return "", errors.Errorf("expected %d bytes, got %d", spec.ByteLength, len(raw))
		}
		return hexutil.Encode(raw), nil

	case KindUUID:
		s, err := asString(v)
		if err != nil {
			return "", err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return "", errors.Wrapf(err, "invalid uuid %q", s)
		}
		return id.String(), nil

	default:
		return "", errors.Errorf("kind %s has no scalar form", spec.Kind)
	}
}

// exactEqual compares two decoded JSON values. Numbers compare by value.
func exactEqual(a, b interface{}) bool {
	if jsonType(a) != jsonType(b) {
		return false
	}
	switch x := a.(type) {
	case *object:
		y := b.(*object)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for _, k := range x.keys {
			if !y.has(k) || !exactEqual(x.values[k], y.values[k]) {
				return false
			}
		}
		return true
	case []interface{}:
		y := b.([]interface{})
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !exactEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	if jsonType(a) == "number" {
		ra, okA := numberValue(a)
		rb, okB := numberValue(b)
		return okA && okB && ra.Cmp(rb) == 0
	}
	return a == b
}

func numberValue(v interface{}) (*big.Rat, bool) {
	switch t := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(t.String())
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(t), true
	default:
		n, err := integerValue(v)
		if err != nil {
			return nil, false
		}
		return new(big.Rat).SetInt(n), true
	}
}
