// Pattern matching for Scry queries.
//
// The matcher walks a parsed match chain against an immutable graph
// snapshot, narrowing two working sets step by step:
//
//	filteredNodes — candidate nodes, start: every node in the graph
//	filteredEdges — candidate edges, start: every edge in the graph
//
// Each step recomputes its from/to candidates FROM THE WORKING SET, not
// from the whole graph, so a multi-step chain behaves as a sequential join:
// step 1 can only shrink, never grow, step 2's input. Alongside the working
// sets the matcher records variable bindings (nodeVars) and per-step edge
// bindings (edgeVars) for the WHERE filter and the RETURN projection.
//
// Everything fails closed: an unresolvable WHERE variable yields an empty
// result, a missing property never matches, and ordering operators refuse
// non-numeric values instead of coercing.
package query

import (
	"github.com/sirupsen/logrus"

	"github.com/scrylabs/scry/pkg/graph"
)

// MatchResult carries the matcher's accumulators into projection.
type MatchResult struct {
	// NodeVars maps each pattern variable to the nodes it bound.
	NodeVars map[string][]*graph.Node
	// EdgeVars maps each chain step index to the edges it matched.
	EdgeVars map[int][]*graph.Edge
	// FilteredNodes is the final narrowed node set (after WHERE, if any).
	FilteredNodes []*graph.Node
	// FilteredEdges is the last step's matched edge set.
	FilteredEdges []*graph.Edge
}

// matchChain executes the match chain and the optional WHERE condition.
// The caller guarantees a non-empty chain; each step is either a full
// from–rel–to triple or a node-only step (Rel and To both nil).
func matchChain(q *ParsedQuery, g *graph.Graph) *MatchResult {
	res := &MatchResult{
		NodeVars:      make(map[string][]*graph.Node),
		EdgeVars:      make(map[int][]*graph.Edge),
		FilteredNodes: g.Nodes,
		FilteredEdges: g.Edges,
	}

	for i, step := range q.Chain {
		fromCandidates := filterNodes(res.FilteredNodes, step.From)

		if step.Rel == nil {
			// Node-only step: narrow nodes by the pattern alone and drop
			// edges whose endpoints did not survive.
			if step.From.Variable != "" {
				res.NodeVars[step.From.Variable] = fromCandidates
			}
			res.FilteredNodes = fromCandidates
			res.FilteredEdges = edgesWithin(res.FilteredEdges, fromCandidates)
			res.EdgeVars[i] = res.FilteredEdges
			continue
		}

		toCandidates := filterNodes(res.FilteredNodes, step.To)
		relCandidates := filterEdges(res.FilteredEdges, step.Rel, fromCandidates, toCandidates)

		if step.From.Variable != "" {
			res.NodeVars[step.From.Variable] = fromCandidates
		}
		if step.To.Variable != "" {
			res.NodeVars[step.To.Variable] = toCandidates
		}
		res.EdgeVars[i] = relCandidates

		res.FilteredNodes = unionNodes(fromCandidates, toCandidates)
		res.FilteredEdges = relCandidates
	}

	if q.Where != nil {
		res.FilteredNodes = applyWhere(q.Where, res.NodeVars)
	}

	logrus.WithFields(logrus.Fields{
		"component": "matcher",
		"steps":     len(q.Chain),
		"nodes":     len(res.FilteredNodes),
		"edges":     len(res.FilteredEdges),
	}).Debug("match complete")
	return res
}

// filterNodes returns the candidates satisfying a node pattern: label match
// when the pattern declares one, plus strict equality on every declared
// property filter.
func filterNodes(candidates []*graph.Node, pattern *NodePattern) []*graph.Node {
	out := make([]*graph.Node, 0, len(candidates))
	for _, n := range candidates {
		if nodeMatches(n, pattern) {
			out = append(out, n)
		}
	}
	return out
}

func nodeMatches(n *graph.Node, pattern *NodePattern) bool {
	if pattern.Label != "" && n.Label != pattern.Label {
		return false
	}
	for _, f := range pattern.Props {
		actual, ok := n.Property(f.Key)
		if !ok || !actual.Equal(f.Value) {
			return false
		}
	}
	return true
}

// filterEdges returns the candidate edges whose label matches the relation
// type (when declared) and whose endpoints are consistent with the pattern
// direction: for Out the edge runs from-set → to-set, for In the roles are
// swapped.
func filterEdges(candidates []*graph.Edge, rel *RelationPattern, from, to []*graph.Node) []*graph.Edge {
	fromIDs := idSet(from)
	toIDs := idSet(to)

	out := make([]*graph.Edge, 0, len(candidates))
	for _, e := range candidates {
		if rel.Type != "" && e.Label != rel.Type {
			continue
		}
		var ok bool
		switch rel.Direction {
		case DirectionOut:
			_, src := fromIDs[e.Source]
			_, dst := toIDs[e.Target]
			ok = src && dst
		case DirectionIn:
			_, src := toIDs[e.Source]
			_, dst := fromIDs[e.Target]
			ok = src && dst
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

// applyWhere resolves the condition's variable against the bindings and
// keeps the bound nodes satisfying the comparison. An unbound variable
// resolves to nothing: the result is empty, not the unfiltered set.
func applyWhere(cond *WhereCondition, nodeVars map[string][]*graph.Node) []*graph.Node {
	bound, ok := nodeVars[cond.Variable]
	if !ok {
		return nil
	}
	out := make([]*graph.Node, 0, len(bound))
	for _, n := range bound {
		actual, exists := n.Property(cond.Key)
		if !exists {
			continue
		}
		if compareValues(actual, cond.Op, cond.Value) {
			out = append(out, n)
		}
	}
	return out
}

// compareValues evaluates one comparison. Equality is exact across any
// scalar kind; the ordering operators are defined only when both sides are
// numbers and never coerce.
func compareValues(actual graph.Value, op ComparisonOp, expected graph.Value) bool {
	if op == OpEq {
		return actual.Equal(expected)
	}
	c, comparable := actual.Compare(expected)
	if !comparable {
		return false
	}
	switch op {
	case OpLt:
		return c < 0
	case OpGt:
		return c > 0
	case OpLte:
		return c <= 0
	case OpGte:
		return c >= 0
	}
	return false
}

// unionNodes merges two candidate lists, preserving first-seen order and
// dropping nodes present in both (a step whose from and to patterns match
// the same node contributes it once).
func unionNodes(a, b []*graph.Node) []*graph.Node {
	out := make([]*graph.Node, 0, len(a)+len(b))
	seen := make(map[graph.NodeID]struct{}, len(a)+len(b))
	for _, list := range [][]*graph.Node{a, b} {
		for _, n := range list {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// edgesWithin keeps the edges whose source and target both survive in the
// node set.
func edgesWithin(candidates []*graph.Edge, nodes []*graph.Node) []*graph.Edge {
	ids := idSet(nodes)
	out := make([]*graph.Edge, 0, len(candidates))
	for _, e := range candidates {
		if _, ok := ids[e.Source]; !ok {
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

func idSet(nodes []*graph.Node) map[graph.NodeID]struct{} {
	ids := make(map[graph.NodeID]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
