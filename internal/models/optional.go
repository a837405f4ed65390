package models

import (
	"bytes"
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/errors"
	"strconv"
)

// The collaborator's verdict payload is loosely typed. Every leaf is decoded into one of the optional types below
// which record whether the key was present with the expected JSON type. Decoding a leaf never fails: a value of the
// wrong type is recorded as absent.

var jsonNull = []byte("null")

// OptString is an optional string. JSON numbers are accepted and kept in their literal form since the collaborator
// sends dimensions both as strings and as numbers.
type OptString struct {
	Value string
	Valid bool
}

// Some returns a present OptString.
func Some(s string) OptString {
	return OptString{Value: s, Valid: true}
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	*o = OptString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*o = OptString{Value: s, Valid: true}
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*o = OptString{Value: n.String(), Valid: true}
		}
	}
	return nil
}

// NonEmpty reports whether the string is present and not empty.
func (o OptString) NonEmpty() bool {
	return o.Valid && o.Value != ""
}

// OptBool is an optional boolean.
type OptBool struct {
	Value bool
	Valid bool
}

func (o *OptBool) UnmarshalJSON(data []byte) error {
	*o = OptBool{}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil && !bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = OptBool{Value: b, Valid: true}
	}
	return nil
}

// OptNumber is an optional JSON number.
type OptNumber struct {
	Value float64
	Valid bool
}

func (o *OptNumber) UnmarshalJSON(data []byte) error {
	*o = OptNumber{}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil && !bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = OptNumber{Value: f, Valid: true}
	}
	return nil
}

// String formats the number in its shortest decimal representation, e.g. 0.85 or 7.
func (o OptNumber) String() string {
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

// StringList is an optional list of strings. Non-string elements are skipped.
type StringList struct {
	Items []string
	Valid bool
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = StringList{}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil
	}
	l.Valid = true
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			l.Items = append(l.Items, s)
		}
	}
	return nil
}

// decodeLenient decodes data into v ignoring JSON type mismatches. Fields with a mismatched type keep their zero
// value. Syntax errors are still reported.
func decodeLenient(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err //nolint:wrapcheck // caller adds context
}
