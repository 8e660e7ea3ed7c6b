// Result projection for Scry queries.
//
// Projection turns the matcher's accumulators back into a renderable graph.
// Result nodes are always drawn from the ORIGINAL node collection by id, so
// a projected node carries its full original attributes no matter how the
// working copies were narrowed along the way; RETURN items of the
// variable.key form then rewrite the projected copy down to the requested
// properties.
package query

import "github.com/scrylabs/scry/pkg/graph"

// project builds the final result graph from the match accumulators.
//
// A bare `variable` return item keeps the whole node (full properties are
// already the default, so the bare form adds nothing). When one node is
// named by several variable.key items, the requested keys accumulate.
func project(q *ParsedQuery, res *MatchResult, g *graph.Graph) *graph.Graph {
	finalIDs := idSet(res.FilteredNodes)

	// Requested property keys per node id, nil meaning "keep everything".
	keep := make(map[graph.NodeID][]string)
	full := make(map[graph.NodeID]struct{})
	for _, item := range q.Return {
		bound := res.NodeVars[item.Variable]
		if item.Key == "" {
			for _, n := range bound {
				full[n.ID] = struct{}{}
			}
			continue
		}
		for _, n := range bound {
			keep[n.ID] = append(keep[n.ID], item.Key)
		}
	}

	nodes := make([]*graph.Node, 0, len(res.FilteredNodes))
	for _, original := range g.Nodes {
		if _, ok := finalIDs[original.ID]; !ok {
			continue
		}
		keys, trimmed := keep[original.ID]
		if _, keepAll := full[original.ID]; keepAll || !trimmed {
			nodes = append(nodes, original.Clone())
			continue
		}
		projected := &graph.Node{
			ID:         original.ID,
			Label:      original.Label,
			Properties: make(map[string]graph.Value, len(keys)),
		}
		for _, key := range keys {
			if v, ok := original.Property(key); ok {
				projected.Properties[key] = v
			}
		}
		nodes = append(nodes, projected)
	}

	edges := make([]*graph.Edge, len(res.FilteredEdges))
	copy(edges, res.FilteredEdges)

	return graph.New(nodes, edges)
}
