package conformance

// Kind selects how a field's values are type-checked and compared.
type Kind int

const (
	// KindExact compares the decoded JSON values for equality.
	KindExact Kind = iota
	// KindDecimalString is a JSON string holding a non-negative base-10
	// integer, compared by numeric value.
	KindDecimalString
	// KindAddress is a 0x-prefixed 20-byte hex string, compared
	// case-insensitively.
	KindAddress
	// KindEnum is a JSON string restricted to FieldSpec.Values.
	KindEnum
	// KindInteger is a JSON integer, compared by value.
	KindInteger
	// KindHex is a 0x-prefixed hex string of FieldSpec.ByteLength bytes.
	KindHex
	// KindUUID is a JSON string holding a UUID.
	KindUUID
	// KindObject is a nested JSON object described by FieldSpec.Fields.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindDecimalString:
		return "decimal string"
	case KindAddress:
		return "address"
	case KindEnum:
		return "enum"
	case KindInteger:
		return "integer"
	case KindHex:
		return "hex string"
	case KindUUID:
		return "uuid"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// FieldSpec describes one key of a record.
type FieldSpec struct {
	Name string
	Kind Kind
	// Opaque fields are non-deterministic by construction (salt, signature).
	// Only their type and range are checked, never their value.
	Opaque bool
	// Values lists the allowed values of an enum, or of an integer when set.
	Values []string
	// MaxBits bounds integer and decimal-string values; zero means 256.
	MaxBits int
	// ByteLength is the decoded length of a KindHex value.
	ByteLength int
	// Fields describes a KindObject value.
	Fields []FieldSpec
}

// Schema names a record layout.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

// Field returns the spec for name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	return lookup(s.Fields, name)
}

// Without returns a copy of s without the named top-level fields.
func (s Schema) Without(names ...string) Schema {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := Schema{Name: s.Name}
	for _, f := range s.Fields {
		if !drop[f.Name] {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

func lookup(fields []FieldSpec, name string) (FieldSpec, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func orderFields() []FieldSpec {
	return []FieldSpec{
		{Name: "salt", Kind: KindInteger, Opaque: true, MaxBits: 64},
		{Name: "maker", Kind: KindAddress},
		{Name: "signer", Kind: KindAddress},
		{Name: "taker", Kind: KindAddress},
		{Name: "tokenId", Kind: KindDecimalString},
		{Name: "makerAmount", Kind: KindDecimalString},
		{Name: "takerAmount", Kind: KindDecimalString},
		{Name: "expiration", Kind: KindDecimalString},
		{Name: "nonce", Kind: KindDecimalString},
		{Name: "feeRateBps", Kind: KindDecimalString},
		{Name: "side", Kind: KindEnum, Values: []string{"BUY", "SELL"}},
		{Name: "signatureType", Kind: KindInteger, Values: []string{"0", "1", "2"}},
		{Name: "signature", Kind: KindHex, Opaque: true, ByteLength: 65},
	}
}

// OrderSchema describes a signed order in transport form.
func OrderSchema() Schema {
	return Schema{Name: "order", Fields: orderFields()}
}

// PostOrderSchema describes the body of a post-order request.
func PostOrderSchema() Schema {
	return Schema{
		Name: "postOrder",
		Fields: []FieldSpec{
			{Name: "order", Kind: KindObject, Fields: orderFields()},
			{Name: "owner", Kind: KindUUID},
			{Name: "orderType", Kind: KindEnum, Values: []string{"GTC", "GTD", "FOK", "FAK"}},
		},
	}
}
