// Package query implements the declarative graph-query engine for Scry.
//
// The engine accepts a Cypher-like MATCH ... WHERE ... RETURN ... query and
// an immutable in-memory property graph, and produces the filtered
// sub-graph satisfying the query. Execution is single-threaded, synchronous
// and allocation-fresh: inputs are never mutated, no state survives a call,
// and re-running a query against an unchanged graph yields identical
// output.
//
// Pipeline: query text → tokens → derivations → bindings → projected graph.
//
// Example Usage:
//
//	engine := query.NewEngine()
//	result, err := engine.Run("MATCH (p:Person)-[:FRIEND]->(f:Person) RETURN f.name", g)
//	if errors.Is(err, query.ErrInvalidQuery) {
//		// show the message, keep displaying the previous graph
//	}
//
// # Error Policy
//
// Lexical and grammar failures surface as ErrInvalidQuery with a readable
// message; they never panic across this boundary, so the host UI keeps its
// currently displayed graph. A syntactically valid query that matches
// nothing returns an empty graph — a correct "no rows", not an error. A
// malformed chain step (nil from/rel/to, possible when a host hands the
// engine a hand-built ParsedQuery) falls back to the full unfiltered graph.
package query

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scrylabs/scry/pkg/graph"
)

// ErrInvalidQuery is returned for every lexical or syntax failure. Hosts
// display its message and leave the current graph untouched.
var ErrInvalidQuery = errors.New("query syntax is invalid")

// Limits bounds what the engine will accept. Zero values disable a bound.
type Limits struct {
	// MaxQueryLen caps the query text length in bytes.
	MaxQueryLen int
	// MaxChainLen caps the number of steps in a match chain.
	MaxChainLen int
}

// DefaultLimits suit an interactive host: generous for a hand-typed query,
// tight enough that a pasted novel fails fast.
var DefaultLimits = Limits{MaxQueryLen: 4096, MaxChainLen: 32}

// Engine executes queries against graph snapshots. It is stateless apart
// from its configuration and safe to reuse across queries.
type Engine struct {
	limits Limits
	log    *logrus.Entry
}

// NewEngine creates an engine with DefaultLimits.
func NewEngine() *Engine {
	return NewEngineWithLimits(DefaultLimits)
}

// NewEngineWithLimits creates an engine with explicit bounds.
func NewEngineWithLimits(limits Limits) *Engine {
	return &Engine{
		limits: limits,
		log:    logrus.WithField("component", "engine"),
	}
}

// Run executes one query against a graph snapshot and returns the
// projected result graph.
//
// The input graph is never mutated. On ErrInvalidQuery the returned graph
// is nil and the caller keeps whatever it was displaying.
func (e *Engine) Run(queryText string, g *graph.Graph) (result *graph.Graph, err error) {
	if g == nil {
		return nil, fmt.Errorf("%w: no graph loaded", ErrInvalidQuery)
	}
	if e.limits.MaxQueryLen > 0 && len(queryText) > e.limits.MaxQueryLen {
		return nil, fmt.Errorf("%w: query exceeds %d bytes", ErrInvalidQuery, e.limits.MaxQueryLen)
	}

	// Internal faults must not escape into the host UI. A panic below this
	// point means the engine mishandled a pattern edge case; degrade to the
	// documented malformed-pattern fallback.
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Warn("engine fault, returning unfiltered graph")
			result = graph.New(g.Nodes, g.Edges)
			err = nil
		}
	}()

	tokens, lexErr := NewTokenizer(queryText).Tokenize()
	if lexErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, lexErr)
	}

	parsed, parseErr := NewParser(tokens).Parse()
	if parseErr != nil {
		return nil, fmt.Errorf("%w: no valid reading of %q", ErrInvalidQuery, queryText)
	}
	return e.Execute(parsed, g)
}

// Execute runs an already-parsed query. Hosts that construct ParsedQuery
// values directly (or cache them) enter here; Run is the text front door.
func (e *Engine) Execute(q *ParsedQuery, g *graph.Graph) (*graph.Graph, error) {
	if q == nil || len(q.Chain) == 0 {
		// Not executable: the whole original graph is the result.
		return graph.New(g.Nodes, g.Edges), nil
	}
	if e.limits.MaxChainLen > 0 && len(q.Chain) > e.limits.MaxChainLen {
		return nil, fmt.Errorf("%w: chain exceeds %d steps", ErrInvalidQuery, e.limits.MaxChainLen)
	}
	for _, step := range q.Chain {
		// A step is either a full from–rel–to triple or node-only (Rel and
		// To both absent); anything in between is malformed.
		if step.From == nil || (step.Rel == nil) != (step.To == nil) {
			e.log.Warn("malformed chain step, returning unfiltered graph")
			return graph.New(g.Nodes, g.Edges), nil
		}
	}

	res := matchChain(q, g)
	return project(q, res, g), nil
}
