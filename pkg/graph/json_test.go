package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "p1", "label": "Person", "properties": {"name": "Alice", "age": 30}},
			{"id": "p2", "label": "Person", "properties": {"name": "Bob"}}
		],
		"edges": [
			{"source": "p1", "target": "p2", "label": "FRIEND"}
		]
	}`)

	g, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Order())
	assert.Equal(t, 1, g.Size())

	alice, ok := g.NodeByID("p1")
	require.True(t, ok)
	age, ok := alice.Property("age")
	require.True(t, ok)
	assert.True(t, age.Equal(Number(30)))
}

func TestDecodeTolerance(t *testing.T) {
	// Missing labels, missing properties, and dangling edges all load.
	data := []byte(`{
		"nodes": [{"id": "a"}, {"id": "b", "label": "Thing"}],
		"edges": [{"source": "a", "target": "ghost"}]
	}`)

	g, err := Decode(data)
	require.NoError(t, err)

	a, ok := g.NodeByID("a")
	require.True(t, ok)
	assert.Empty(t, a.Label)
	assert.NotNil(t, a.Properties, "missing properties load as empty map")
	assert.Len(t, g.Edges, 1, "dangling edges are kept")
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{nodes`},
		{"empty node id", `{"nodes": [{"id": ""}]}`},
		{"duplicate node id", `{"nodes": [{"id": "x"}, {"id": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestEncodeEmptyGraph(t *testing.T) {
	g := New(nil, nil)
	data, err := g.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": [], "edges": []}`, string(data))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := New(
		[]*Node{
			{ID: "n1", Label: "Doc", Properties: map[string]Value{"title": String("readme")}},
		},
		[]*Edge{{Source: "n1", Target: "n1", Label: "SELF"}},
	)

	data, err := g.Encode()
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, back.Order())
	n, ok := back.NodeByID("n1")
	require.True(t, ok)
	assert.Equal(t, "Doc", n.Label)
	title, _ := n.Property("title")
	assert.True(t, title.Equal(String("readme")))
}

func TestNodesByLabel(t *testing.T) {
	g := New([]*Node{
		{ID: "1", Label: "A"},
		{ID: "2", Label: "B"},
		{ID: "3", Label: "A"},
	}, nil)

	assert.Len(t, g.NodesByLabel("A"), 2)
	assert.Len(t, g.NodesByLabel("B"), 1)
	assert.Empty(t, g.NodesByLabel("C"))
}

func TestNodeCloneIsDeep(t *testing.T) {
	n := &Node{ID: "x", Label: "L", Properties: map[string]Value{"k": Number(1)}}
	c := n.Clone()
	c.Properties["k"] = Number(2)

	orig, _ := n.Property("k")
	assert.True(t, orig.Equal(Number(1)), "clone mutation must not reach the original")
}
