// AST types for parsed Scry queries.
//
// All AST values are created fresh per parse and discarded after the query
// produces its projected graph; nothing here is shared or cached across
// queries, and there is no package-level parse state.
package query

import "github.com/scrylabs/scry/pkg/graph"

// Direction is the traversal direction of a relation pattern.
type Direction int

const (
	// DirectionOut matches edges leaving the step's from node: (a)-[:T]->(b).
	DirectionOut Direction = iota
	// DirectionIn matches edges arriving at the step's from node: (a)<-[:T]-(b).
	DirectionIn
)

// PropFilter is one key/value equality filter inside a node pattern's
// property block, e.g. {name: 'Alice'}.
type PropFilter struct {
	Key   string
	Value graph.Value
}

// NodePattern is a node template: optional variable binding, optional label
// filter, and zero or more property equality filters.
//
// The concrete grammar always supplies both variable and label; the fields
// stay optional so the matcher is robust against partially-filled patterns
// arriving from embedding hosts.
type NodePattern struct {
	Variable string
	Label    string
	Props    []PropFilter
}

// RelationPattern is an edge template: optional type filter plus direction.
type RelationPattern struct {
	Type      string
	Direction Direction
}

// MatchStep is one element of a pattern chain: a full node–relation–node
// triple, or a node-only step (Rel and To nil) when the query matches a
// bare node pattern. Fields are pointers so a malformed step is also
// representable and the engine can fall back instead of crashing on it.
type MatchStep struct {
	From *NodePattern
	Rel  *RelationPattern
	To   *NodePattern
}

// ComparisonOp is the operator of a WHERE condition.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpLt
	OpGt
	OpLte
	OpGte
)

func (op ComparisonOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	}
	return "?"
}

// WhereCondition is the single post-match property filter of a query:
// variable.key <op> value.
type WhereCondition struct {
	Variable string
	Key      string
	Op       ComparisonOp
	Value    graph.Value
}

// ReturnItem is one projection item: a bare variable (whole node) or
// variable.key (single property). Key is empty for the bare form.
type ReturnItem struct {
	Variable string
	Key      string
}

// ParsedQuery is one complete derivation of a query: the match chain, the
// optional WHERE condition, and the RETURN projection list.
type ParsedQuery struct {
	Chain  []MatchStep
	Where  *WhereCondition
	Return []ReturnItem
}
