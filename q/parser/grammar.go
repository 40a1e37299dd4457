package parser

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// StartProduction is the production every other production must be
// reachable from.
const StartProduction = "Query"

//go:embed grammar.ebnf
var coreGrammar string

// lexicalKinds maps token-class productions to the token kinds the lexer
// produces for them.
var lexicalKinds = map[string]TokenKind{
	"identifier": TokenIdent,
	"number":     TokenNumber,
	"string":     TokenString,
}

// GrammarSource returns the complete grammar: the core rules followed by
// one production per built-in call form.
func GrammarSource() string {
	var sb strings.Builder
	sb.WriteString(coreGrammar)
	sb.WriteString("\n// Built-in call forms.\n\n")

	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.Production()
	}
	fmt.Fprintf(&sb, "BuiltinCall = %s .\n\n", strings.Join(names, "\n            | "))

	for _, b := range builtins {
		switch b.Arity {
		case Binary:
			fmt.Fprintf(&sb, "%s = %q \"(\" Expression \";\" Expression \")\" .\n", b.Production(), b.Keyword)
		default:
			fmt.Fprintf(&sb, "%s = %q \"(\" Expression \")\" .\n", b.Production(), b.Keyword)
		}
	}
	return sb.String()
}

// LoadGrammar parses and verifies the complete grammar.
func LoadGrammar() (ebnf.Grammar, error) {
	return ParseGrammar("grammar.ebnf", GrammarSource())
}

// ParseGrammar parses src as EBNF and verifies it from StartProduction.
func ParseGrammar(filename, src string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, StartProduction); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

func isLexical(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}
