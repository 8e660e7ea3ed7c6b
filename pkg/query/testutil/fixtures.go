// Package testutil provides shared fixtures for query engine tests.
//
// The fixtures build the small social graphs the engine tests run against,
// so individual tests declare intent ("two people, one FRIEND edge") rather
// than repeating node literals.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/pkg/graph"
)

// FriendPair returns the two-person graph from the engine's acceptance
// scenario: Alice (30) -FRIEND-> Bob (25).
func FriendPair(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.New(
		[]*graph.Node{
			{ID: "p1", Label: "Person", Properties: map[string]graph.Value{
				"name": graph.String("Alice"),
				"age":  graph.Number(30),
			}},
			{ID: "p2", Label: "Person", Properties: map[string]graph.Value{
				"name": graph.String("Bob"),
				"age":  graph.Number(25),
			}},
		},
		[]*graph.Edge{
			{Source: "p1", Target: "p2", Label: "FRIEND"},
		},
	)
}

// Office returns a mixed-label graph: three people, two companies, FRIEND
// and WORKS_AT edges, plus one untyped node with no properties.
func Office(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.New(
		[]*graph.Node{
			{ID: "alice", Label: "Person", Properties: map[string]graph.Value{
				"name": graph.String("Alice"), "age": graph.Number(30),
			}},
			{ID: "bob", Label: "Person", Properties: map[string]graph.Value{
				"name": graph.String("Bob"), "age": graph.Number(25),
			}},
			{ID: "carol", Label: "Person", Properties: map[string]graph.Value{
				"name": graph.String("Carol"), "age": graph.Number(35),
			}},
			{ID: "acme", Label: "Company", Properties: map[string]graph.Value{
				"name": graph.String("Acme"),
			}},
			{ID: "initech", Label: "Company", Properties: map[string]graph.Value{
				"name": graph.String("Initech"),
			}},
			{ID: "stray"},
		},
		[]*graph.Edge{
			{Source: "alice", Target: "bob", Label: "FRIEND"},
			{Source: "bob", Target: "carol", Label: "FRIEND"},
			{Source: "alice", Target: "acme", Label: "WORKS_AT"},
			{Source: "bob", Target: "initech", Label: "WORKS_AT"},
		},
	)
}

// NodeIDs extracts the node ids of a result graph in order.
func NodeIDs(g *graph.Graph) []graph.NodeID {
	out := make([]graph.NodeID, 0, g.Order())
	for _, n := range g.Nodes {
		out = append(out, n.ID)
	}
	return out
}

// RequireNode fetches a node by id and fails the test when it is absent.
func RequireNode(t *testing.T, g *graph.Graph, id graph.NodeID) *graph.Node {
	t.Helper()
	n, ok := g.NodeByID(id)
	require.True(t, ok, "node %s missing from result", id)
	return n
}
