// Tokenizer for the Scry query language.
//
// The tokenizer turns raw query text into an ordered token stream. Nothing
// is skipped implicitly: whitespace and newlines come out as explicit tokens
// so the grammar can be permissive about formatting without the tokenizer
// guessing what matters. Unrecognized characters produce a LexError value,
// never a panic.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// LexError reports an unrecognized character sequence in the query text.
type LexError struct {
	Offset int
	Char   rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at offset %d", e.Char, e.Offset)
}

// Tokenizer breaks a query string into tokens.
type Tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

// NewTokenizer initializes a Tokenizer over the given query text.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Tokenize processes the whole input into a token stream. On a lexical
// error the tokens scanned so far are discarded and the error describes the
// offending character and offset.
func (t *Tokenizer) Tokenize() ([]Token, error) {
	log := logrus.WithField("component", "tokenizer")
	for t.pos < len(t.input) {
		c := rune(t.input[t.pos])
		switch {
		case c == '\n' || c == '\r':
			t.readNewline()
		case c == ' ' || c == '\t':
			t.readWhitespace()
		case unicode.IsLetter(c) || c == '_':
			t.readIdentOrKeyword()
		case unicode.IsDigit(c):
			t.readNumber()
		case c == '\'':
			if err := t.readString(); err != nil {
				return nil, err
			}
		default:
			if err := t.readSymbol(); err != nil {
				return nil, err
			}
		}
	}
	log.WithField("token_count", len(t.tokens)).Debug("tokenization complete")
	return t.tokens, nil
}

func (t *Tokenizer) emit(kind TokenKind, start int) {
	t.tokens = append(t.tokens, Token{Kind: kind, Literal: t.input[start:t.pos], Offset: start})
}

// readNewline consumes one line break. \r\n counts as a single newline
// token so Windows-edited queries tokenize the same as Unix ones.
func (t *Tokenizer) readNewline() {
	start := t.pos
	if t.input[t.pos] == '\r' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '\n' {
		t.pos++
	}
	t.pos++
	t.emit(TokenNewline, start)
}

// readWhitespace consumes a run of spaces and tabs into one token.
func (t *Tokenizer) readWhitespace() {
	start := t.pos
	for t.pos < len(t.input) && (t.input[t.pos] == ' ' || t.input[t.pos] == '\t') {
		t.pos++
	}
	t.emit(TokenWhitespace, start)
}

// readIdentOrKeyword consumes an identifier-shaped lexeme and classifies it
// as a reserved keyword when it matches one exactly (case-sensitive,
// keyword precedence over identifier).
func (t *Tokenizer) readIdentOrKeyword() {
	start := t.pos
	for t.pos < len(t.input) {
		c := rune(t.input[t.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		t.pos++
	}
	lexeme := t.input[start:t.pos]
	if kind, ok := keywords[lexeme]; ok {
		t.emit(kind, start)
		return
	}
	t.emit(TokenIdent, start)
}

// readNumber consumes an integer or decimal literal.
func (t *Tokenizer) readNumber() {
	start := t.pos
	for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
		t.pos++
	}
	// A dot only belongs to the number when digits follow it; otherwise it
	// is the projection dot in something like "25.foo" (not valid anyway,
	// but the tokenizer should not eat it).
	if t.pos+1 < len(t.input) && t.input[t.pos] == '.' && unicode.IsDigit(rune(t.input[t.pos+1])) {
		t.pos++
		for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
			t.pos++
		}
	}
	t.emit(TokenNumber, start)
}

// readString consumes a single-quoted string literal. Backslash escapes the
// quote and the backslash itself. The token literal keeps the surrounding
// quotes; unquoteString strips and unescapes.
func (t *Tokenizer) readString() error {
	start := t.pos
	t.pos++ // opening quote
	for t.pos < len(t.input) {
		switch t.input[t.pos] {
		case '\\':
			t.pos += 2
		case '\'':
			t.pos++
			t.emit(TokenString, start)
			return nil
		default:
			t.pos++
		}
	}
	return &LexError{Offset: start, Char: '\''}
}

func (t *Tokenizer) readSymbol() error {
	start := t.pos
	two := ""
	if t.pos+1 < len(t.input) {
		two = t.input[t.pos : t.pos+2]
	}

	switch two {
	case "->":
		t.pos += 2
		t.emit(TokenArrow, start)
		return nil
	case "<-":
		t.pos += 2
		t.emit(TokenBackArrow, start)
		return nil
	case "<=":
		t.pos += 2
		t.emit(TokenLte, start)
		return nil
	case ">=":
		t.pos += 2
		t.emit(TokenGte, start)
		return nil
	}

	var kind TokenKind
	switch t.input[t.pos] {
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case '[':
		kind = TokenLBracket
	case ']':
		kind = TokenRBracket
	case '-':
		kind = TokenDash
	case ':':
		kind = TokenColon
	case ',':
		kind = TokenComma
	case '.':
		kind = TokenDot
	case '=':
		kind = TokenEq
	case '<':
		kind = TokenLt
	case '>':
		kind = TokenGt
	default:
		return &LexError{Offset: t.pos, Char: rune(t.input[t.pos])}
	}
	t.pos++
	t.emit(kind, start)
	return nil
}

// unquoteString strips the surrounding single quotes from a string token
// literal and resolves backslash escapes.
func unquoteString(literal string) string {
	inner := literal
	if len(inner) >= 2 && inner[0] == '\'' && inner[len(inner)-1] == '\'' {
		inner = inner[1 : len(inner)-1]
	}
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// parseNumber converts a number token literal to its float value. Number
// tokens only ever contain digits and at most one dot, so this cannot fail
// on tokenizer output; the fallback covers hand-built tokens.
func parseNumber(literal string) float64 {
	n, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0
	}
	return n
}
