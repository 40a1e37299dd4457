package parser

import (
	"fmt"
	"slices"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment

	// Literals
	TokenIdent
	TokenNumber
	TokenString

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenColon
	TokenColonColon
	TokenComma
	TokenPlus
	TokenMinus
	TokenStar
	TokenPercent
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE

	// Built-in keywords follow, one kind per catalogue entry.
	firstKeywordToken
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenError:      "Error",
	TokenWhitespace: "Whitespace",
	TokenComment:    "Comment",
	TokenIdent:      "Identifier",
	TokenNumber:     "Number",
	TokenString:     "String",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenSemicolon:  ";",
	TokenColon:      ":",
	TokenColonColon: "::",
	TokenComma:      ",",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenPercent:    "%",
	TokenEQ:         "=",
	TokenNE:         "<>",
	TokenLT:         "<",
	TokenLE:         "<=",
	TokenGT:         ">",
	TokenGE:         ">=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	if b, ok := BuiltinForToken(k); ok {
		return b.Keyword
	}
	return "Unknown"
}

// IsKeyword reports whether k is the token kind of a built-in keyword.
func (k TokenKind) IsKeyword() bool {
	_, ok := BuiltinForToken(k)
	return ok
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent, TokenNumber, TokenString, TokenError:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

var operators = map[string]TokenKind{
	"(":  TokenLParen,
	")":  TokenRParen,
	";":  TokenSemicolon,
	":":  TokenColon,
	"::": TokenColonColon,
	",":  TokenComma,
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenStar,
	"%":  TokenPercent,
	"=":  TokenEQ,
	"<>": TokenNE,
	"<":  TokenLT,
	"<=": TokenLE,
	">":  TokenGT,
	">=": TokenGE,
}

// LookupKeyword returns the keyword kind for ident, or TokenIdent.
func LookupKeyword(ident string) TokenKind {
	if b, ok := keywords[ident]; ok {
		return b.Token
	}
	return TokenIdent
}

// lookupTerminal maps the text of a grammar terminal to its token kind.
func lookupTerminal(text string) (TokenKind, bool) {
	if kind, ok := operators[text]; ok {
		return kind, true
	}
	if b, ok := keywords[text]; ok {
		return b.Token, true
	}
	return 0, false
}

// TokenSet is an unordered set of token kinds.
type TokenSet map[TokenKind]struct{}

func NewTokenSet(kinds ...TokenKind) TokenSet {
	s := make(TokenSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s TokenSet) Has(k TokenKind) bool {
	_, ok := s[k]
	return ok
}

func (s TokenSet) Add(k TokenKind) bool {
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Kinds returns the members of s in ascending order.
func (s TokenSet) Kinds() []TokenKind {
	kinds := make([]TokenKind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
