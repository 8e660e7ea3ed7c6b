package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrylabs/scry/pkg/graph"
)

// triangle builds a small social graph:
//
//	alice -FRIEND-> bob -FRIEND-> carol, alice -WORKS_AT-> acme
func triangle() *graph.Graph {
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
		},
		[]*graph.Edge{
			{Source: "alice", Target: "bob", Label: "FRIEND"},
			{Source: "bob", Target: "carol", Label: "FRIEND"},
			{Source: "alice", Target: "acme", Label: "WORKS_AT"},
		},
	)
}

func ids(nodes []*graph.Node) []graph.NodeID {
	out := make([]graph.NodeID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestMatchSingleStep(t *testing.T) {
	q := mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person) RETURN a")
	res := matchChain(q, triangle())

	// Variable bindings carry the label/property-filtered candidates, not
	// the edge-constrained subset; only the edge working set reflects
	// connectivity.
	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.NodeVars["a"]))
	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.NodeVars["b"]))
	require.Len(t, res.FilteredEdges, 2)
	for _, e := range res.FilteredEdges {
		assert.Equal(t, "FRIEND", e.Label)
	}
	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.FilteredNodes))
}

func TestMatchNodeOnlyStep(t *testing.T) {
	q := mustParse(t, "MATCH (n:Person) RETURN n")
	res := matchChain(q, triangle())

	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.NodeVars["n"]))
	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.FilteredNodes))
	// WORKS_AT reaches outside the surviving node set and is dropped.
	require.Len(t, res.FilteredEdges, 2)
	for _, e := range res.FilteredEdges {
		assert.Equal(t, "FRIEND", e.Label)
	}
}

func TestMatchNodeOnlyStepWithWhere(t *testing.T) {
	q := mustParse(t, "MATCH (n:Person) WHERE n.age > 28 RETURN n")
	res := matchChain(q, triangle())
	assert.ElementsMatch(t, []graph.NodeID{"alice", "carol"}, ids(res.FilteredNodes))
}

func TestMatchLabelFilter(t *testing.T) {
	q := mustParse(t, "MATCH (p:Person)-[:WORKS_AT]->(c:Company) RETURN c")
	res := matchChain(q, triangle())

	assert.ElementsMatch(t, []graph.NodeID{"alice", "bob", "carol"}, ids(res.NodeVars["p"]))
	assert.Equal(t, []graph.NodeID{"acme"}, ids(res.NodeVars["c"]))
	require.Len(t, res.FilteredEdges, 1)
	assert.Equal(t, "WORKS_AT", res.FilteredEdges[0].Label)
}

func TestMatchPropertyFilter(t *testing.T) {
	q := mustParse(t, "MATCH (a:Person {name: 'Alice'})-[:FRIEND]->(b:Person) RETURN b")
	res := matchChain(q, triangle())

	assert.Equal(t, []graph.NodeID{"alice"}, ids(res.NodeVars["a"]))
	// Only edges leaving alice survive; the to binding itself stays
	// label-filtered.
	require.Len(t, res.FilteredEdges, 1)
	assert.Equal(t, graph.NodeID("alice"), res.FilteredEdges[0].Source)
	assert.Equal(t, graph.NodeID("bob"), res.FilteredEdges[0].Target)
}

func TestMatchPropertyFilterNumeric(t *testing.T) {
	q := mustParse(t, "MATCH (a:Person {age: 30})-[:FRIEND]->(b:Person) RETURN b")
	res := matchChain(q, triangle())
	assert.Equal(t, []graph.NodeID{"alice"}, ids(res.NodeVars["a"]))
}

// (a)-[:T]->(b) and (b)<-[:T]-(a) describe the same underlying edges and
// must produce identical matched-edge sets.
func TestMatchDirectionEquivalence(t *testing.T) {
	g := triangle()
	out := matchChain(mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person) RETURN a"), g)
	in := matchChain(mustParse(t, "MATCH (b:Person)<-[:FRIEND]-(a:Person) RETURN a"), g)

	assert.ElementsMatch(t, out.FilteredEdges, in.FilteredEdges)
	assert.ElementsMatch(t, ids(out.NodeVars["a"]), ids(in.NodeVars["a"]))
	assert.ElementsMatch(t, ids(out.NodeVars["b"]), ids(in.NodeVars["b"]))
}

// A two-step chain narrows sequentially: step 2 runs against step 1's
// output, so its bindings are a subset of what step 2 alone would match.
func TestMatchChainNarrowsMonotonically(t *testing.T) {
	g := triangle()

	chained := matchChain(mustParse(t,
		"MATCH (a:Person {name: 'Alice'})-[:FRIEND]->(b:Person)-[:FRIEND]->(c:Person) RETURN c"), g)
	independent := matchChain(mustParse(t,
		"MATCH (b:Person)-[:FRIEND]->(c:Person) RETURN c"), g)

	indepIDs := map[graph.NodeID]struct{}{}
	for _, n := range independent.NodeVars["c"] {
		indepIDs[n.ID] = struct{}{}
	}
	for _, n := range chained.NodeVars["c"] {
		_, ok := indepIDs[n.ID]
		assert.True(t, ok, "chained binding %s not in independent candidate set", n.ID)
	}

	// Step 2's edge candidates start from step 1's output (only edges
	// leaving alice), so the edge set stays narrowed.
	require.Len(t, chained.FilteredEdges, 1)
	assert.Equal(t, graph.NodeID("alice"), chained.FilteredEdges[0].Source)
}

func TestMatchUnknownLabelIsEmptyNotError(t *testing.T) {
	q := mustParse(t, "MATCH (x:Ghost)-[:FRIEND]->(y:Person) RETURN y")
	res := matchChain(q, triangle())

	assert.Empty(t, res.NodeVars["x"])
	assert.Empty(t, res.FilteredEdges)
}

func TestMatchDanglingEdgeNeverMatches(t *testing.T) {
	g := graph.New(
		[]*graph.Node{{ID: "a", Label: "T"}},
		[]*graph.Edge{{Source: "a", Target: "missing", Label: "X"}},
	)
	q := mustParse(t, "MATCH (a:T)-[:X]->(b:T) RETURN b")
	res := matchChain(q, g)
	assert.Empty(t, res.FilteredEdges)
}

func TestWhereOperatorsAgainstNumericProperty(t *testing.T) {
	// Against bob (age 25): all five operators follow exact numeric
	// comparison with no coercion.
	tests := []struct {
		expr    string
		matched bool
	}{
		{"b.age = 25", true},
		{"b.age < 25", false},
		{"b.age > 25", false},
		{"b.age <= 25", true},
		{"b.age >= 25", true},
		{"b.age < 26", true},
		{"b.age > 24", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			// The property filter pins the b binding to bob alone, so the
			// WHERE outcome is all-or-nothing.
			q := mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person {name: 'Bob'}) WHERE "+tt.expr+" RETURN b")
			res := matchChain(q, triangle())
			if tt.matched {
				assert.Equal(t, []graph.NodeID{"bob"}, ids(res.FilteredNodes))
			} else {
				assert.Empty(t, res.FilteredNodes)
			}
		})
	}
}

func TestWhereUnboundVariableFailsClosed(t *testing.T) {
	// "z" is bound by nothing; the condition yields an empty result, not
	// the unfiltered set.
	q := mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person) WHERE z.age > 0 RETURN b")
	res := matchChain(q, triangle())
	assert.Empty(t, res.FilteredNodes)
}

func TestWhereMissingPropertyFailsClosed(t *testing.T) {
	q := mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person) WHERE b.salary > 0 RETURN b")
	res := matchChain(q, triangle())
	assert.Empty(t, res.FilteredNodes)
}

func TestWhereOrderingOnNonNumericFailsClosed(t *testing.T) {
	// name is a string; ordering comparisons never satisfy, equality does.
	lt := matchChain(mustParse(t,
		"MATCH (a:Person)-[:FRIEND]->(b:Person) WHERE b.name < 'Zed' RETURN b"), triangle())
	assert.Empty(t, lt.FilteredNodes)

	eq := matchChain(mustParse(t,
		"MATCH (a:Person)-[:FRIEND]->(b:Person) WHERE b.name = 'Bob' RETURN b"), triangle())
	assert.Equal(t, []graph.NodeID{"bob"}, ids(eq.FilteredNodes))
}

func TestWhereEqualityNoCoercion(t *testing.T) {
	// age is numeric; comparing it to the string '25' must not match.
	q := mustParse(t, "MATCH (a:Person)-[:FRIEND]->(b:Person) WHERE b.age = '25' RETURN b")
	res := matchChain(q, triangle())
	assert.Empty(t, res.FilteredNodes)
}

func TestCompareValues(t *testing.T) {
	five := graph.Number(5)
	tests := []struct {
		name     string
		actual   graph.Value
		op       ComparisonOp
		expected graph.Value
		want     bool
	}{
		{"eq number", graph.Number(5), OpEq, five, true},
		{"eq string", graph.String("x"), OpEq, graph.String("x"), true},
		{"eq bool", graph.Bool(true), OpEq, graph.Bool(true), true},
		{"lt true", graph.Number(4), OpLt, five, true},
		{"lt false at boundary", five, OpLt, five, false},
		{"lte at boundary", five, OpLte, five, true},
		{"gt false at boundary", five, OpGt, five, false},
		{"gte at boundary", five, OpGte, five, true},
		{"ordering on string fails", graph.String("4"), OpLt, five, false},
		{"ordering on bool fails", graph.Bool(false), OpLt, five, false},
		{"ordering on null fails", graph.Null(), OpLt, five, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareValues(tt.actual, tt.op, tt.expected))
		})
	}
}
