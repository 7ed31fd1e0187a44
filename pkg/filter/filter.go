// SPDX-License-Identifier: Apache-2.0

package filter

import "fmt"

// Candidate is a single unvalidated filter proposed by the extraction stage.
// It carries no guarantees: the field and operator are free text, and the
// value can be any JSON-like shape (string, number, boolean or a two element
// list for ranges).
type Candidate struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Filter is a candidate after successful resolution against the schema. The
// field holds the canonical name, the operator one of the canonical symbols,
// and the value is guaranteed to match the field's declared type. Range
// values are a two element slice with the lower bound first.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type ErrorKind string

const (
	UnsupportedField     ErrorKind = "unsupported-field"
	UnsupportedOperator  ErrorKind = "unsupported-operator"
	OperatorIncompatible ErrorKind = "operator-incompatible-with-field"
	MissingValue         ErrorKind = "missing-value"
	InvalidValueType     ErrorKind = "invalid-value-type"
	AmbiguousDate        ErrorKind = "ambiguous-date"
	MalformedRange       ErrorKind = "malformed-range"
)

// ValidationError describes why a single candidate was rejected. Index refers
// to the candidate's position in the original input sequence, regardless of
// how many other candidates failed before it.
type ValidationError struct {
	Index   int       `json:"index"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter %d: %s: %s", e.Index+1, e.Kind, e.Message)
}

// Messages flattens validation errors into their user facing messages,
// preserving order.
func Messages(errs []ValidationError) []string {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for i := range errs {
		msgs = append(msgs, errs[i].Error())
	}
	return msgs
}
