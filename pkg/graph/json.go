// JSON interchange for Scry graphs.
//
// The host's document-to-graph collaborator hands graphs over in a plain
// JSON shape, and query results go back out the same way:
//
//	{
//	  "nodes": [{"id": "p1", "label": "Person", "properties": {"age": 30}}],
//	  "edges": [{"source": "p1", "target": "p2", "label": "FRIEND"}]
//	}
//
// label and properties are optional on input: a missing label matches any
// unlabeled pattern, missing properties load as an empty map.
package graph

import (
	"encoding/json"
	"fmt"
)

type graphJSON struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// Decode parses the JSON interchange format into an indexed Graph.
//
// Duplicate node ids are rejected; everything else the host can plausibly
// produce (missing labels, missing properties, dangling edges, non-scalar
// property values) is tolerated per the interchange contract.
func Decode(data []byte) (*Graph, error) {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	seen := make(map[NodeID]struct{}, len(raw.Nodes))
	for _, n := range raw.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node with empty id", ErrInvalidData)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidData, n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Properties == nil {
			n.Properties = map[string]Value{}
		}
	}

	return New(raw.Nodes, raw.Edges), nil
}

// Encode renders the graph in the JSON interchange format.
func (g *Graph) Encode() ([]byte, error) {
	nodes := g.Nodes
	if nodes == nil {
		nodes = []*Node{}
	}
	edges := g.Edges
	if edges == nil {
		edges = []*Edge{}
	}
	return json.MarshalIndent(graphJSON{Nodes: nodes, Edges: edges}, "", "  ")
}
