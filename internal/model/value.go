// Package model defines the core domain models used throughout the application.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies the concrete type held by a Value.
type ValueKind uint8

// Value kinds.
const (
	KindEmpty ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the kind name used in error messages and JSON.
func (k ValueKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a typed spec or compatibility scalar. The zero Value is the
// unset value, distinct from 0, false, and "".
type Value struct {
	str  string
	f    float64
	i    int64
	b    bool
	kind ValueKind
}

// NewBool returns a boolean Value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewInt returns an integer Value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewFloat returns a floating-point Value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// NewString returns a string Value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value is unset.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Bool returns the boolean payload. The second return is false when the
// value is not a bool.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int64 returns the integer payload. The second return is false when the
// value is not an int.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float64 returns the numeric payload for int and float values. The second
// return is false for non-numeric values.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String returns the display form of the value. Empty values render as "".
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports whether two values are equal. Numeric values compare by
// magnitude regardless of int/float kind; all other kinds must match exactly.
func (v Value) Equal(o Value) bool {
	if vf, ok := v.Float64(); ok {
		of, ook := o.Float64()
		return ook && vf == of
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	default:
		return false
	}
}

// MarshalJSON encodes the value as a native JSON scalar; empty encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindEmpty:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.str)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes a JSON scalar, preserving the int/float distinction.
// Both null and "" decode to the empty value.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}

	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case bool:
		*v = NewBool(t)
	case string:
		if t == "" {
			*v = Value{}
		} else {
			*v = NewString(t)
		}
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			*v = NewInt(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("invalid numeric value %q: %w", t.String(), err)
		}
		*v = NewFloat(f)
	default:
		return fmt.Errorf("unsupported JSON value type %T", raw)
	}

	return nil
}
