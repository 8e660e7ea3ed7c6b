package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	assert.Equal(t, KindNull, Null().Kind())
	assert.Equal(t, KindString, String("x").Kind())
	assert.Equal(t, KindNumber, Number(1).Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())

	var zero Value
	assert.True(t, zero.IsNull(), "zero Value must be null")
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal strings", String("Alice"), String("Alice"), true},
		{"different strings", String("Alice"), String("Bob"), false},
		{"equal numbers", Number(5), Number(5), true},
		{"different numbers", Number(5), Number(6), false},
		{"equal bools", Bool(true), Bool(true), true},
		{"nulls are equal", Null(), Null(), true},
		{"no coercion number/string", Number(5), String("5"), false},
		{"no coercion bool/number", Bool(true), Number(1), false},
		{"null never equals string", Null(), String(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a), "Equal must be symmetric")
		})
	}
}

func TestValueCompare(t *testing.T) {
	c, ok := Number(3).Compare(Number(5))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Number(5).Compare(Number(5))
	require.True(t, ok)
	assert.Equal(t, 0, c)

	c, ok = Number(7).Compare(Number(5))
	require.True(t, ok)
	assert.Equal(t, 1, c)
}

func TestValueCompareFailsClosedOnNonNumbers(t *testing.T) {
	nonNumeric := []Value{String("5"), Bool(true), Null()}
	for _, v := range nonNumeric {
		_, ok := v.Compare(Number(5))
		assert.False(t, ok, "%s must not be orderable", v.Kind())
		_, ok = Number(5).Compare(v)
		assert.False(t, ok, "number must not order against %s", v.Kind())
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	in := map[string]Value{
		"name":   String("Alice"),
		"age":    Number(30),
		"active": Bool(true),
		"note":   Null(),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[string]Value
	require.NoError(t, json.Unmarshal(data, &out))
	for k, v := range in {
		assert.True(t, v.Equal(out[k]), "round trip changed %q", k)
	}
}

func TestValueUnmarshalNonScalar(t *testing.T) {
	// Arrays and objects are tolerated on input but load as null.
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`[1, 2, 3]`), &v))
	assert.True(t, v.IsNull())

	require.NoError(t, json.Unmarshal([]byte(`{"nested": true}`), &v))
	assert.True(t, v.IsNull())
}
