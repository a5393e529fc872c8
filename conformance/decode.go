package conformance

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// object is a decoded JSON object that remembers its key order.
type object struct {
	keys   []string
	values map[string]interface{}
}

func (o *object) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// decodeObject parses data as a single JSON object. Numbers are kept as
// json.Number and nested objects as *object.
func decodeObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.Errorf("expected a json object, got %v", tok)
	}
	obj, err := readObject(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after json object")
	}
	return obj, nil
}

func readObject(dec *json.Decoder) (*object, error) {
	obj := &object{values: make(map[string]interface{})}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read object key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected object key %v", tok)
		}
		if obj.has(key) {
			return nil, errors.Errorf("duplicate key %q", key)
		}
		value, err := readValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}
		obj.keys = append(obj.keys, key)
		obj.values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "failed to close object")
	}
	return obj, nil
}

func readValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return readObject(dec)
	case '[':
		var arr []interface{}
		for dec.More() {
			v, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, errors.Errorf("unexpected delimiter %v", d)
	}
}

// fromMap converts an already-decoded map. Go maps have no order, so keys
// are sorted.
func fromMap(m map[string]interface{}) *object {
	obj := &object{values: make(map[string]interface{}, len(m))}
	for k, v := range m {
		obj.keys = append(obj.keys, k)
		obj.values[k] = normalize(v)
	}
	sort.Strings(obj.keys)
	return obj
}

func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return fromMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = normalize(t[i])
		}
		return out
	default:
		return v
	}
}
