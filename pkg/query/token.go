// Token definitions for the Scry query language.
package query

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenWhitespace TokenKind = iota
	TokenNewline
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenArrow     // ->
	TokenBackArrow // <-
	TokenDash
	TokenColon
	TokenComma
	TokenDot
	TokenEq
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenString
	TokenNumber
	TokenMatch
	TokenReturn
	TokenWhere
	TokenAnd
	TokenOr
	TokenNot
	TokenIdent
)

var tokenKindNames = map[TokenKind]string{
	TokenWhitespace: "whitespace",
	TokenNewline:    "newline",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenArrow:      "->",
	TokenBackArrow:  "<-",
	TokenDash:       "-",
	TokenColon:      ":",
	TokenComma:      ",",
	TokenDot:        ".",
	TokenEq:         "=",
	TokenLt:         "<",
	TokenGt:         ">",
	TokenLte:        "<=",
	TokenGte:        ">=",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenMatch:      "MATCH",
	TokenReturn:     "RETURN",
	TokenWhere:      "WHERE",
	TokenAnd:        "AND",
	TokenOr:         "OR",
	TokenNot:        "NOT",
	TokenIdent:      "identifier",
}

// String returns a readable kind name for error messages and debug logs.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps reserved words to their token kinds. Matching is
// case-sensitive: "match" is an identifier, "MATCH" is a keyword.
var keywords = map[string]TokenKind{
	"MATCH":  TokenMatch,
	"RETURN": TokenReturn,
	"WHERE":  TokenWhere,
	"AND":    TokenAnd,
	"OR":     TokenOr,
	"NOT":    TokenNot,
}

// Token is one lexical token with its literal text and byte offset in the
// source query. Whitespace and newlines are real tokens; the grammar is the
// layer that treats them as insignificant, not the tokenizer.
type Token struct {
	Kind    TokenKind
	Literal string
	Offset  int
}

// isGap reports whether the token is layout (whitespace or newline) that the
// grammar may freely absorb between structural elements.
func (t Token) isGap() bool {
	return t.Kind == TokenWhitespace || t.Kind == TokenNewline
}
