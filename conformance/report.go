package conformance

import (
	"fmt"
	"strings"
)

// FieldResult is the outcome for one key present in both records.
type FieldResult struct {
	Field   string
	Kind    Kind
	Opaque  bool
	Matched bool
	Left    interface{}
	Right   interface{}
	Reason  string
}

// Report is the result of comparing two records. Left is the reference and
// Right the candidate.
type Report struct {
	Schema       string
	FieldResults []FieldResult

	// ExtraKeys* are keys present on that side only.
	ExtraKeysLeft  []string
	ExtraKeysRight []string
	// MissingKeys* are keys absent from that side but present on the other
	// side or required by the schema.
	MissingKeysLeft  []string
	MissingKeysRight []string

	KeyOrderLeft  []string
	KeyOrderRight []string
	KeyOrderMatch bool

	OverallMatch bool
}

// Mismatches returns the field results that did not match.
func (r *Report) Mismatches() []FieldResult {
	var out []FieldResult
	for _, fr := range r.FieldResults {
		if !fr.Matched {
			out = append(out, fr)
		}
	}
	return out
}

// Err returns nil for a matching report and a *SchemaMismatchError
// otherwise.
func (r *Report) Err() error {
	if r.OverallMatch {
		return nil
	}
	e := &SchemaMismatchError{Schema: r.Schema, KeyOrder: !r.KeyOrderMatch}
	for _, fr := range r.Mismatches() {
		e.Fields = append(e.Fields, fr.Field)
	}
	e.Extra = append(append(e.Extra, r.ExtraKeysLeft...), r.ExtraKeysRight...)
	e.Missing = append(append(e.Missing, r.MissingKeysLeft...), r.MissingKeysRight...)
	return e
}

// String renders the report one field per line.
func (r *Report) String() string {
	var sb strings.Builder
	for _, fr := range r.FieldResults {
		mark := "ok"
		if !fr.Matched {
			mark = "MISMATCH"
		}
		if fr.Opaque {
			fmt.Fprintf(&sb, "%-8s %s (%s, type only): %v | %v", mark, fr.Field, fr.Kind, fr.Left, fr.Right)
		} else {
			fmt.Fprintf(&sb, "%-8s %s (%s): %v | %v", mark, fr.Field, fr.Kind, fr.Left, fr.Right)
		}
		if fr.Reason != "" {
			fmt.Fprintf(&sb, " [%s]", fr.Reason)
		}
		sb.WriteByte('\n')
	}
	writeKeys := func(label string, keys []string) {
		if len(keys) > 0 {
			fmt.Fprintf(&sb, "%s: %s\n", label, strings.Join(keys, ", "))
		}
	}
	writeKeys("extra keys in reference", r.ExtraKeysLeft)
	writeKeys("extra keys in candidate", r.ExtraKeysRight)
	writeKeys("missing keys in reference", r.MissingKeysLeft)
	writeKeys("missing keys in candidate", r.MissingKeysRight)
	if !r.KeyOrderMatch {
		fmt.Fprintf(&sb, "key order: %s | %s\n", strings.Join(r.KeyOrderLeft, ","), strings.Join(r.KeyOrderRight, ","))
	}
	fmt.Fprintf(&sb, "overall match: %t\n", r.OverallMatch)
	return sb.String()
}
