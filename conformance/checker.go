package conformance

import (
	"go.uber.org/zap"
)

// Option configures a Checker.
type Option func(*Checker)

// WithStrictKeyOrder makes key-order divergence a failure. By default key
// order is recorded but not enforced.
func WithStrictKeyOrder() Option {
	return func(c *Checker) {
		c.strictKeyOrder = true
	}
}

// WithRequiredFields reports schema fields absent from both records as
// missing on both sides.
func WithRequiredFields() Option {
	return func(c *Checker) {
		c.requireFields = true
	}
}

// Checker compares two records field by field against a Schema. It never
// fails on a mismatch; mismatches are reported in the Report.
type Checker struct {
	schema         Schema
	strictKeyOrder bool
	requireFields  bool
	logger         *zap.Logger
}

// NewChecker creates a Checker for schema. A nil logger is replaced with a
// no-op logger.
func NewChecker(schema Schema, logger *zap.Logger, opts ...Option) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checker{schema: schema, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schema returns the schema records are checked against
func (c *Checker) Schema() Schema {
	return c.schema
}

// Compare parses two JSON objects and compares them. An error is returned
// only when either input is not a single JSON object.
func (c *Checker) Compare(reference, candidate []byte) (*Report, error) {
	left, err := decodeObject(reference)
	if err != nil {
		return nil, err
	}
	right, err := decodeObject(candidate)
	if err != nil {
		return nil, err
	}
	return c.compare(left, right), nil
}

// CompareValues compares two already-decoded records. Key order is not
// available for Go maps and is not checked.
func (c *Checker) CompareValues(reference, candidate map[string]interface{}) *Report {
	return c.compare(fromMap(reference), fromMap(candidate))
}

func (c *Checker) compare(left, right *object) *Report {
	r := &Report{
		Schema:        c.schema.Name,
		KeyOrderLeft:  append([]string(nil), left.keys...),
		KeyOrderRight: append([]string(nil), right.keys...),
	}
	r.KeyOrderMatch = c.compareObjects("", c.schema.Fields, left, right, r)

	r.OverallMatch = len(r.ExtraKeysLeft) == 0 && len(r.ExtraKeysRight) == 0 &&
		len(r.MissingKeysLeft) == 0 && len(r.MissingKeysRight) == 0 &&
		len(r.Mismatches()) == 0
	if c.strictKeyOrder && !r.KeyOrderMatch {
		r.OverallMatch = false
	}

	c.logger.Sugar().Debugw("Compared records",
		"schema", r.Schema,
		"fields", len(r.FieldResults),
		"mismatches", len(r.Mismatches()),
		"keyOrderMatch", r.KeyOrderMatch,
		"match", r.OverallMatch,
	)
	return r
}

// compareObjects appends results for every key present in left or right,
// plus every schema field when fields are required. It reports whether both
// objects (recursively) share key order.
func (c *Checker) compareObjects(prefix string, fields []FieldSpec, left, right *object, r *Report) bool {
	seen := make(map[string]bool)
	var union []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			union = append(union, k)
		}
	}
	for _, f := range fields {
		if c.requireFields || left.has(f.Name) || right.has(f.Name) {
			add(f.Name)
		}
	}
	for _, k := range left.keys {
		add(k)
	}
	for _, k := range right.keys {
		add(k)
	}

	orderMatch := equalKeys(left.keys, right.keys)
	for _, key := range union {
		path := prefix + key
		inLeft, inRight := left.has(key), right.has(key)
		switch {
		case !inLeft && !inRight:
			r.MissingKeysLeft = append(r.MissingKeysLeft, path)
			r.MissingKeysRight = append(r.MissingKeysRight, path)
			continue
		case !inRight:
			r.ExtraKeysLeft = append(r.ExtraKeysLeft, path)
			r.MissingKeysRight = append(r.MissingKeysRight, path)
			continue
		case !inLeft:
			r.ExtraKeysRight = append(r.ExtraKeysRight, path)
			r.MissingKeysLeft = append(r.MissingKeysLeft, path)
			continue
		}

		spec, ok := lookup(fields, key)
		if !ok {
			spec = FieldSpec{Name: key, Kind: KindExact}
		}
		lv, rv := left.values[key], right.values[key]

		if spec.Kind == KindObject {
			lo, lok := lv.(*object)
			ro, rok := rv.(*object)
			if lok && rok {
				if !c.compareObjects(path+".", spec.Fields, lo, ro, r) {
					orderMatch = false
				}
				continue
			}
			r.FieldResults = append(r.FieldResults, FieldResult{
				Field: path, Kind: spec.Kind, Left: lv, Right: rv,
				Reason: "expected object, got " + jsonType(lv) + " and " + jsonType(rv),
			})
			continue
		}
		r.FieldResults = append(r.FieldResults, compareField(path, spec, lv, rv))
	}
	return orderMatch
}

func compareField(path string, spec FieldSpec, lv, rv interface{}) FieldResult {
	res := FieldResult{Field: path, Kind: spec.Kind, Opaque: spec.Opaque, Left: lv, Right: rv}

	if spec.Kind == KindExact {
		switch {
		case spec.Opaque && jsonType(lv) != jsonType(rv):
			res.Reason = "types differ: " + jsonType(lv) + " and " + jsonType(rv)
		case !spec.Opaque && !exactEqual(lv, rv):
			res.Reason = "values differ"
		default:
			res.Matched = true
		}
		return res
	}

	lc, lerr := canonical(spec, lv)
	rc, rerr := canonical(spec, rv)
	switch {
	case lerr != nil:
		res.Reason = "reference: " + lerr.Error()
	case rerr != nil:
		res.Reason = "candidate: " + rerr.Error()
	case spec.Opaque:
		res.Matched = true
	case lc != rc:
		res.Reason = "values differ"
	default:
		res.Matched = true
	}
	return res
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CompareSigningBytes returns nil when the two signing payloads are
// identical and an *EncodingMismatchError naming the first differing offset
// otherwise.
func CompareSigningBytes(reference, candidate []byte) error {
	return compareBytes(reference, candidate)
}

func compareBytes(reference, candidate []byte) error {
	n := len(reference)
	if len(candidate) < n {
		n = len(candidate)
	}
	for i := 0; i < n; i++ {
		if reference[i] != candidate[i] {
			return &EncodingMismatchError{Offset: i, LeftLength: len(reference), RightLength: len(candidate)}
		}
	}
	if len(reference) != len(candidate) {
		return &EncodingMismatchError{Offset: n, LeftLength: len(reference), RightLength: len(candidate)}
	}
	return nil
}
