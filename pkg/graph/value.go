// Scalar property values for Scry graphs.
//
// This file contains the tagged scalar union used for node properties and
// query literals. Keeping the variant explicit (instead of interface{}) lets
// the query engine switch exhaustively over kinds and fail closed on type
// mismatches instead of coercing.
//
// # Value Kinds
//
//   - KindNull:   absent / JSON null
//   - KindString: 'Alice'
//   - KindNumber: 30, 1.5 (always float64 internally)
//   - KindBool:   true / false
//
// # Comparison Semantics
//
// Equality works across any kind but never across kinds (a string is never
// equal to a number, no coercion). Ordering is defined only for numbers;
// asking for an ordering on anything else reports "not comparable" and the
// caller treats that as a non-match.
package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// String returns a human-readable kind name, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Value is a scalar property value: string, number, bool, or null.
//
// The zero Value is null. Construct non-null values with String, Number,
// and Bool.
//
// Example:
//
//	props := map[string]graph.Value{
//		"name":   graph.String("Alice"),
//		"age":    graph.Number(30),
//		"active": graph.Bool(true),
//	}
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Null returns the null Value.
func Null() Value { return Value{} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string content and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric content and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean content and whether the value is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports exact equality: same kind and same content. No coercion is
// performed; Number(5) is not equal to String("5").
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	}
	return false
}

// Compare orders two numeric values. It returns -1, 0, or +1 and ok=true
// only when both values are numbers; every other combination is not
// comparable and callers must treat it as a failed match.
func (v Value) Compare(other Value) (int, bool) {
	if v.kind != KindNumber || other.kind != KindNumber {
		return 0, false
	}
	switch {
	case v.num < other.num:
		return -1, true
	case v.num > other.num:
		return 1, true
	}
	return 0, true
}

// String renders the value the way it would appear in a query literal.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return "'" + v.str + "'"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "null"
}

// MarshalJSON encodes the value as the plain JSON scalar it wraps.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a plain JSON scalar. Arrays and objects are not
// scalar property values; they decode to null so that a structurally rich
// input graph still loads and simply never matches a scalar filter.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode property value: %w", err)
	}
	switch val := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(val)
	case float64:
		*v = Number(val)
	case bool:
		*v = Bool(val)
	default:
		// Array or nested object: tolerated on input, never matchable.
		*v = Null()
	}
	return nil
}
