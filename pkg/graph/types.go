// Package graph defines the in-memory property graph model for Scry.
//
// The model is a labeled property graph: nodes carry a single label and a
// scalar property map, edges are directed and labeled. Graphs are built once
// from host-supplied data (usually the JSON interchange format, see json.go)
// and treated as immutable snapshots by the query engine — every query reads
// a Graph and produces a fresh one, inputs are never mutated.
//
// Example Usage:
//
//	g := graph.New(
//		[]*graph.Node{
//			{ID: "p1", Label: "Person", Properties: map[string]graph.Value{
//				"name": graph.String("Alice"),
//				"age":  graph.Number(30),
//			}},
//			{ID: "p2", Label: "Person", Properties: map[string]graph.Value{
//				"name": graph.String("Bob"),
//			}},
//		},
//		[]*graph.Edge{
//			{Source: "p1", Target: "p2", Label: "FRIEND"},
//		},
//	)
//
//	alice, ok := g.NodeByID("p1")
//	people := g.NodesByLabel("Person")
//
// Dangling edges (endpoints missing from the node set) are legal; they are
// kept in the edge list and simply never satisfy a pattern.
package graph

import "errors"

// Common errors for graph loading and lookup.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidData = errors.New("invalid graph data")
)

// NodeID is a strongly-typed unique identifier for graph nodes.
//
// A custom type keeps node ids from being confused with labels or property
// keys at API boundaries.
type NodeID string

// Node represents a graph node in the labeled property graph.
//
// Fields:
//   - ID: unique across all nodes in one graph
//   - Label: type tag like "Person"; empty means untyped (matches any
//     label-less pattern, fails any labeled pattern)
//   - Properties: scalar key-value data; may be nil, treated as empty
type Node struct {
	ID         NodeID           `json:"id"`
	Label      string           `json:"label,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
}

// Property returns the named property value. Missing keys and nil maps
// report ok=false so callers can fail closed without a nil check.
func (n *Node) Property(key string) (Value, bool) {
	if n.Properties == nil {
		return Value{}, false
	}
	v, ok := n.Properties[key]
	return v, ok
}

// Clone returns a deep copy of the node. The query engine clones before
// rewriting properties for a RETURN projection so the source graph stays
// untouched.
func (n *Node) Clone() *Node {
	out := &Node{ID: n.ID, Label: n.Label}
	if n.Properties != nil {
		out.Properties = make(map[string]Value, len(n.Properties))
		for k, v := range n.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// Edge represents a directed labeled relationship between two nodes.
//
// Endpoints are referenced by id and are not required to exist in the node
// set; an edge with a missing endpoint can never match a pattern step.
type Edge struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Graph is an immutable snapshot of nodes and edges plus lookup indexes.
//
// The id and label indexes exist so that projection and label filtering do
// not rescan the node list; pattern matching itself is a linear scan, which
// is fine at interactive graph sizes.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byID    map[NodeID]*Node
	byLabel map[string][]*Node
}

// New builds a Graph and its indexes from node and edge lists. The slices
// are retained, not copied; callers hand over ownership.
func New(nodes []*Node, edges []*Edge) *Graph {
	g := &Graph{
		Nodes:   nodes,
		Edges:   edges,
		byID:    make(map[NodeID]*Node, len(nodes)),
		byLabel: make(map[string][]*Node),
	}
	for _, n := range nodes {
		g.byID[n.ID] = n
		g.byLabel[n.Label] = append(g.byLabel[n.Label], n)
	}
	return g
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id NodeID) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodesByLabel returns all nodes carrying the given label.
func (g *Graph) NodesByLabel(label string) []*Node {
	return g.byLabel[label]
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.Nodes) }

// Size returns the number of edges.
func (g *Graph) Size() int { return len(g.Edges) }
