// Package schema validates extracted model records against a named record
// kind. Validation is deliberately minimal: only top-level key presence is
// checked, no type coercion and no default filling, so a record that
// passes is returned byte-for-byte as the model produced it.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// Kind identifies the expected record schema.
type Kind string

const (
	KindEmotion Kind = "emotion"
	KindFallacy Kind = "fallacy"
)

// requiredKeys lists the top-level keys per kind, in the order they are
// checked. A failure names the first missing key.
var requiredKeys = map[Kind][]string{
	KindEmotion: {"primary", "confidence"},
	KindFallacy: {"fallacies", "enrichment"},
}

// Record is a validated top-level object.
type Record map[string]any

// SyntaxError reports that the extracted span is not parseable JSON.
// Offset is a byte position into the span when the decoder reported one.
type SyntaxError struct {
	Offset int64
	Detail string
}

func (e *SyntaxError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("malformed record at offset %d: %s", e.Offset, e.Detail)
	}
	return "malformed record: " + e.Detail
}

// MissingFieldError names the first required key absent from the record.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Key)
}

// Validator checks extracted spans against a record kind.
//
// Repair enables a single jsonrepair pass when strict parsing fails, for
// models that emit single quotes or unquoted keys. Off by default: the
// strict syntax error is the contract, repair is an opt-in leniency.
type Validator struct {
	Repair bool
}

// Validate parses span and confirms every required key of kind is present
// at the top level. The parsed record is returned unchanged on success.
func (v *Validator) Validate(span string, kind Kind) (Record, error) {
	keys, ok := requiredKeys[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	rec, err := decode(span)
	if err != nil && v.Repair {
		repaired, repErr := jsonrepair.JSONRepair(span)
		if repErr == nil {
			rec, err = decode(repaired)
		}
	}
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if _, present := rec[key]; !present {
			return nil, &MissingFieldError{Key: key}
		}
	}
	return rec, nil
}

func decode(span string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(span), &rec); err != nil {
		return nil, asSyntaxError(err)
	}
	return rec, nil
}

func asSyntaxError(err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return &SyntaxError{Offset: syn.Offset, Detail: syn.Error()}
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return &SyntaxError{Offset: typ.Offset, Detail: err.Error()}
	}
	return &SyntaxError{Detail: err.Error()}
}
