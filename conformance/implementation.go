package conformance

import (
	"encoding/json"

	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/pkg/errors"
)

// Implementation is an order codec under test. Given the same order data
// and salt, two conforming implementations produce identical unsigned
// transport JSON and identical signing bytes.
type Implementation interface {
	OrderJSON(data *chain.OrderData, salt uint64) ([]byte, error)
	SigningBytes(data *chain.OrderData, salt uint64) ([]byte, error)
}

type builderImplementation struct {
	builder *chain.OrderBuilder
}

// FromBuilder adapts an OrderBuilder to Implementation.
func FromBuilder(builder *chain.OrderBuilder) Implementation {
	return builderImplementation{builder: builder}
}

func (b builderImplementation) OrderJSON(data *chain.OrderData, salt uint64) ([]byte, error) {
	order, err := b.builder.BuildOrderWithSalt(data, salt)
	if err != nil {
		return nil, err
	}
	return json.Marshal(order)
}

func (b builderImplementation) SigningBytes(data *chain.OrderData, salt uint64) ([]byte, error) {
	order, err := b.builder.BuildOrderWithSalt(data, salt)
	if err != nil {
		return nil, err
	}
	return b.builder.EncodeForSigning(order)
}

// CheckResult holds the outcome of CheckImplementations.
type CheckResult struct {
	// Report compares the unsigned transport bodies field by field.
	Report *Report
	// Body is non-nil when the transport bodies differ byte-wise.
	Body error
	// Signing is non-nil when the signing bytes differ.
	Signing error
}

// Err returns the first failure: schema, then signing bytes, then body bytes.
func (r *CheckResult) Err() error {
	if err := r.Report.Err(); err != nil {
		return err
	}
	if r.Signing != nil {
		return r.Signing
	}
	return r.Body
}

// CheckImplementations runs reference and candidate on identical input and
// compares their transport bodies and signing bytes. The returned error is
// set only when an implementation fails to produce output.
func (c *Checker) CheckImplementations(reference, candidate Implementation, data *chain.OrderData, salt uint64) (*CheckResult, error) {
	refBody, err := reference.OrderJSON(data, salt)
	if err != nil {
		return nil, errors.Wrap(err, "reference order json")
	}
	candBody, err := candidate.OrderJSON(data, salt)
	if err != nil {
		return nil, errors.Wrap(err, "candidate order json")
	}
	refSigning, err := reference.SigningBytes(data, salt)
	if err != nil {
		return nil, errors.Wrap(err, "reference signing bytes")
	}
	candSigning, err := candidate.SigningBytes(data, salt)
	if err != nil {
		return nil, errors.Wrap(err, "candidate signing bytes")
	}

	unsigned := &Checker{
		schema:         OrderSchema().Without("signature"),
		strictKeyOrder: c.strictKeyOrder,
		logger:         c.logger,
	}
	report, err := unsigned.Compare(refBody, candBody)
	if err != nil {
		return nil, err
	}

	res := &CheckResult{
		Report:  report,
		Body:    compareBytes(refBody, candBody),
		Signing: CompareSigningBytes(refSigning, candSigning),
	}
	c.logger.Sugar().Infow("Checked implementations",
		"salt", salt,
		"schemaMatch", report.OverallMatch,
		"bodyBytesMatch", res.Body == nil,
		"signingBytesMatch", res.Signing == nil,
	)
	return res, nil
}
