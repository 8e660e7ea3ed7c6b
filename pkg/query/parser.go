// Parser for the Scry query language.
//
// The grammar is deliberately layout-blind: every structural element may be
// separated by any run of whitespace/newline tokens (written `_` below).
// A query is well-formed only when the whole token stream matches
//
//	_ MATCH _ patternChain _ whereOpt _ RETURN _ resultList _
//
// # Derivations
//
// The parser is a pure function from a token stream to the ordered list of
// ALL complete derivations. The grammar is ambiguous: adjacent `_` gaps
// (around an absent whereOpt) can split a whitespace run more than one way,
// and the chain-continuation rule overlaps with the full-triple rule, so a
// single query can admit several derivations — usually with identical ASTs.
// The engine always executes derivation 0. Enumeration order is fixed:
//
//   - gaps are split nearest-first (consume as little layout as possible)
//   - a present WHERE is tried before the absent alternative
//   - chain continuation is tried before chain termination
//
// "First derivation wins" is a documented sharp edge, not an accident; the
// selection is unit-tested explicitly so a reordering of alternatives shows
// up as a test failure, not a silent behavior change.
//
// # Structure within elements
//
// Inside a node pattern, relation pattern, property block, WHERE condition,
// and result list the parse is deterministic (gaps are absorbed greedily),
// so the derivation count stays small and independent of pattern size.
package query

import (
	"github.com/sirupsen/logrus"

	"github.com/scrylabs/scry/pkg/graph"
)

// Parser parses one token stream. It holds no state beyond the stream and
// may be discarded after use; create one per parse.
type Parser struct {
	tokens []Token
}

// NewParser creates a parser over a token stream.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse returns the first derivation of the token stream, the one the
// engine executes. Zero derivations is a syntax error.
func (p *Parser) Parse() (*ParsedQuery, error) {
	derivations := p.Derivations()
	if len(derivations) == 0 {
		return nil, ErrInvalidQuery
	}
	return derivations[0], nil
}

// Derivations returns every complete parse of the token stream in the
// fixed enumeration order described in the package comment. An empty slice
// means the query is not well-formed.
func (p *Parser) Derivations() []*ParsedQuery {
	out := p.parseMain()
	logrus.WithFields(logrus.Fields{
		"component":   "parser",
		"derivations": len(out),
	}).Debug("parse complete")
	return out
}

func (p *Parser) parseMain() []*ParsedQuery {
	var out []*ParsedQuery
	for _, g0 := range p.gaps(0) {
		if !p.is(g0, TokenMatch) {
			continue
		}
		for _, g1 := range p.gaps(g0 + 1) {
			for _, ch := range p.parseChain(g1) {
				for _, g2 := range p.gaps(ch.next) {
					for _, wh := range p.parseWhereOpt(g2) {
						for _, g3 := range p.gaps(wh.next) {
							if !p.is(g3, TokenReturn) {
								continue
							}
							for _, g4 := range p.gaps(g3 + 1) {
								items, next, ok := p.parseResultList(g4)
								if !ok {
									continue
								}
								for _, g5 := range p.gaps(next) {
									if g5 != len(p.tokens) {
										continue
									}
									out = append(out, &ParsedQuery{
										Chain:  ch.steps,
										Where:  wh.cond,
										Return: items,
									})
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

// is reports whether the token at pos exists and has the given kind.
func (p *Parser) is(pos int, kind TokenKind) bool {
	return pos < len(p.tokens) && p.tokens[pos].Kind == kind
}

// gaps returns every position reachable from pos by consuming zero or more
// layout tokens, nearest-first. The final stream position is included when
// the trailing tokens are all layout.
func (p *Parser) gaps(pos int) []int {
	out := []int{pos}
	for pos < len(p.tokens) && p.tokens[pos].isGap() {
		pos++
		out = append(out, pos)
	}
	return out
}

// skipGaps greedily consumes layout tokens. Used inside structural elements
// where nearest-first splitting would only manufacture duplicate
// derivations without changing any AST.
func (p *Parser) skipGaps(pos int) int {
	for pos < len(p.tokens) && p.tokens[pos].isGap() {
		pos++
	}
	return pos
}

// chainAlt is one way of reading a pattern chain: the steps plus the stream
// position right after the last consumed token.
type chainAlt struct {
	steps []MatchStep
	next  int
}

// parseChain reads the leading node pattern and then every alternative way
// of continuing the chain. The first continuation must be a bare
// relation–node link chaining off the leading node (together they form the
// first full triple); later continuations may also be full triples. With no
// continuation at all the chain degenerates to a single node-only step, so
// MATCH (n:Label) RETURN n selects by label alone.
func (p *Parser) parseChain(pos int) []chainAlt {
	first, next, ok := p.parseNodePattern(pos)
	if !ok {
		return nil
	}
	var out []chainAlt
	for _, cont := range p.parseContinuations(next, first) {
		if len(cont.steps) == 0 {
			out = append(out, chainAlt{
				steps: []MatchStep{{From: first}},
				next:  cont.next,
			})
			continue
		}
		if cont.steps[0].From != first {
			// A full triple directly after the leading node would strand
			// it; the leading node must head the first step.
			continue
		}
		out = append(out, chainAlt{steps: cont.steps, next: cont.next})
	}
	return out
}

// parseContinuations enumerates chain continuations starting at pos, with
// prev as the pattern the next bare link would chain off. Continuation is
// tried before termination, so derivation 0 carries the longest chain.
func (p *Parser) parseContinuations(pos int, prev *NodePattern) []chainAlt {
	var out []chainAlt
	q := p.skipGaps(pos)

	if step, next, ok := p.parseTriple(q); ok {
		for _, rest := range p.parseContinuations(next, step.To) {
			out = append(out, chainAlt{
				steps: append([]MatchStep{step}, rest.steps...),
				next:  rest.next,
			})
		}
	} else if rel, relNext, ok := p.parseRelation(q); ok {
		nodeStart := p.skipGaps(relNext)
		if to, next, ok := p.parseNodePattern(nodeStart); ok {
			step := MatchStep{From: prev, Rel: rel, To: to}
			for _, rest := range p.parseContinuations(next, to) {
				out = append(out, chainAlt{
					steps: append([]MatchStep{step}, rest.steps...),
					next:  rest.next,
				})
			}
		}
	}

	// Termination: hand the unconsumed layout back to the outer `_`.
	out = append(out, chainAlt{next: pos})
	return out
}

// parseTriple reads one full node–relation–node triple.
func (p *Parser) parseTriple(pos int) (MatchStep, int, bool) {
	from, pos, ok := p.parseNodePattern(pos)
	if !ok {
		return MatchStep{}, 0, false
	}
	rel, pos, ok := p.parseRelation(p.skipGaps(pos))
	if !ok {
		return MatchStep{}, 0, false
	}
	to, pos, ok := p.parseNodePattern(p.skipGaps(pos))
	if !ok {
		return MatchStep{}, 0, false
	}
	return MatchStep{From: from, Rel: rel, To: to}, pos, true
}

// parseNodePattern reads `( _ ident : ident _ propsOpt _ )`.
func (p *Parser) parseNodePattern(pos int) (*NodePattern, int, bool) {
	if !p.is(pos, TokenLParen) {
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)
	if !p.is(pos, TokenIdent) {
		return nil, 0, false
	}
	node := &NodePattern{Variable: p.tokens[pos].Literal}
	pos++
	if !p.is(pos, TokenColon) {
		return nil, 0, false
	}
	pos++
	if !p.is(pos, TokenIdent) {
		return nil, 0, false
	}
	node.Label = p.tokens[pos].Literal
	pos = p.skipGaps(pos + 1)

	if p.is(pos, TokenLBrace) {
		props, next, ok := p.parseProps(pos)
		if !ok {
			return nil, 0, false
		}
		node.Props = props
		pos = p.skipGaps(next)
	}

	if !p.is(pos, TokenRParen) {
		return nil, 0, false
	}
	return node, pos + 1, true
}

// parseProps reads `{ ident : value (, ident : value)* }` with layout
// tolerated everywhere inside the braces. Values are string or number
// literals.
func (p *Parser) parseProps(pos int) ([]PropFilter, int, bool) {
	if !p.is(pos, TokenLBrace) {
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)

	var props []PropFilter
	if p.is(pos, TokenRBrace) {
		return props, pos + 1, true
	}
	for {
		if !p.is(pos, TokenIdent) {
			return nil, 0, false
		}
		key := p.tokens[pos].Literal
		pos = p.skipGaps(pos + 1)
		if !p.is(pos, TokenColon) {
			return nil, 0, false
		}
		pos = p.skipGaps(pos + 1)
		value, next, ok := p.parseLiteral(pos)
		if !ok {
			return nil, 0, false
		}
		props = append(props, PropFilter{Key: key, Value: value})
		pos = p.skipGaps(next)

		if p.is(pos, TokenComma) {
			pos = p.skipGaps(pos + 1)
			continue
		}
		if p.is(pos, TokenRBrace) {
			return props, pos + 1, true
		}
		return nil, 0, false
	}
}

// parseRelation reads `-[:ident]->` (outgoing) or `<-[:ident]-` (incoming),
// with layout tolerated around the brackets.
func (p *Parser) parseRelation(pos int) (*RelationPattern, int, bool) {
	var dir Direction
	switch {
	case p.is(pos, TokenDash):
		dir = DirectionOut
	case p.is(pos, TokenBackArrow):
		dir = DirectionIn
	default:
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)
	if !p.is(pos, TokenLBracket) {
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)
	if !p.is(pos, TokenColon) {
		return nil, 0, false
	}
	pos++
	if !p.is(pos, TokenIdent) {
		return nil, 0, false
	}
	rel := &RelationPattern{Type: p.tokens[pos].Literal, Direction: dir}
	pos = p.skipGaps(pos + 1)
	if !p.is(pos, TokenRBracket) {
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)

	switch dir {
	case DirectionOut:
		if !p.is(pos, TokenArrow) {
			return nil, 0, false
		}
	case DirectionIn:
		if !p.is(pos, TokenDash) {
			return nil, 0, false
		}
	}
	return rel, pos + 1, true
}

// whereAlt is one reading of whereOpt: a condition or its absence.
type whereAlt struct {
	cond *WhereCondition
	next int
}

// parseWhereOpt enumerates the optional WHERE condition. The present
// reading comes first so a parseable WHERE is never shadowed by the empty
// alternative.
func (p *Parser) parseWhereOpt(pos int) []whereAlt {
	var out []whereAlt
	if cond, next, ok := p.parseWhere(pos); ok {
		out = append(out, whereAlt{cond: cond, next: next})
	}
	out = append(out, whereAlt{next: pos})
	return out
}

// parseWhere reads `WHERE ident . ident <op> value`.
func (p *Parser) parseWhere(pos int) (*WhereCondition, int, bool) {
	if !p.is(pos, TokenWhere) {
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)
	if !p.is(pos, TokenIdent) {
		return nil, 0, false
	}
	cond := &WhereCondition{Variable: p.tokens[pos].Literal}
	pos++
	if !p.is(pos, TokenDot) {
		return nil, 0, false
	}
	pos++
	if !p.is(pos, TokenIdent) {
		return nil, 0, false
	}
	cond.Key = p.tokens[pos].Literal
	pos = p.skipGaps(pos + 1)

	switch {
	case p.is(pos, TokenEq):
		cond.Op = OpEq
	case p.is(pos, TokenLt):
		cond.Op = OpLt
	case p.is(pos, TokenGt):
		cond.Op = OpGt
	case p.is(pos, TokenLte):
		cond.Op = OpLte
	case p.is(pos, TokenGte):
		cond.Op = OpGte
	default:
		return nil, 0, false
	}
	pos = p.skipGaps(pos + 1)

	value, next, ok := p.parseLiteral(pos)
	if !ok {
		return nil, 0, false
	}
	cond.Value = value
	return cond, next, true
}

// parseResultList reads comma-separated `ident [. ident]` items with layout
// tolerated around the commas (and therefore across line breaks).
func (p *Parser) parseResultList(pos int) ([]ReturnItem, int, bool) {
	var items []ReturnItem
	for {
		if !p.is(pos, TokenIdent) {
			return nil, 0, false
		}
		item := ReturnItem{Variable: p.tokens[pos].Literal}
		pos++
		if p.is(pos, TokenDot) {
			if !p.is(pos+1, TokenIdent) {
				return nil, 0, false
			}
			item.Key = p.tokens[pos+1].Literal
			pos += 2
		}
		items = append(items, item)

		q := p.skipGaps(pos)
		if !p.is(q, TokenComma) {
			// The layout after the last item belongs to the trailing `_`.
			return items, pos, true
		}
		pos = p.skipGaps(q + 1)
	}
}

// parseLiteral reads a string or number literal into a scalar value.
func (p *Parser) parseLiteral(pos int) (graph.Value, int, bool) {
	switch {
	case p.is(pos, TokenString):
		return graph.String(unquoteString(p.tokens[pos].Literal)), pos + 1, true
	case p.is(pos, TokenNumber):
		return graph.Number(parseNumber(p.tokens[pos].Literal)), pos + 1, true
	}
	return graph.Value{}, 0, false
}
