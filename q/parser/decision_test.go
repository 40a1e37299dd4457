package parser

import (
	"strings"
	"sync"
	"testing"
)

func lookaheadOf(src string) Lookahead {
	return &cursor{src: Tokenize([]byte(src), "", 1)}
}

func TestDefaultTableHasNoConflicts(t *testing.T) {
	for _, c := range DefaultTable().Conflicts() {
		t.Errorf("unexpected conflict: %s", c)
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		decision Decision
		input    string
		want     Rule
	}{
		{DecisionQuery, "a:1", RuleVariableDeclaration},
		{DecisionQuery, "a::1", RuleVariableDeclaration},
		{DecisionQuery, "a+1", RuleExpression},
		{DecisionQuery, "a", RuleExpression},
		{DecisionQuery, "abs(1)", RuleExpression},
		{DecisionQuery, "1", RuleExpression},
		{DecisionUnary, "-1", RuleUnaryExpression},
		{DecisionUnary, "1", RulePrimaryExpression},
		{DecisionUnary, "abs(1)", RulePrimaryExpression},
		{DecisionPrimary, "42", RuleNumberLiteral},
		{DecisionPrimary, `"s"`, RuleStringLiteral},
		{DecisionPrimary, "x", RuleVariableName},
		{DecisionPrimary, "(1)", RuleParenExpression},
		{DecisionPrimary, "()", RuleParenExpression},
		{DecisionPrimary, "abs(1)", keywords["abs"].Rule},
		{DecisionPrimary, "abs 1", keywords["abs"].Rule},
		{DecisionPrimary, "and(1;2)", keywords["and"].Rule},
		{DecisionPrimary, "xrank(1;2)", keywords["xrank"].Rule},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.decision.String()+"/"+tt.input, func(t *testing.T) {
			alt, ok := table.Predict(tt.decision, lookaheadOf(tt.input))
			if !ok {
				t.Fatalf("no prediction")
			}
			if got := table.Alternative(tt.decision, alt).Rule; got != tt.want {
				t.Errorf("predicted %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPredictNoViableAlternative(t *testing.T) {
	tests := []struct {
		decision Decision
		input    string
	}{
		{DecisionPrimary, ")"},
		{DecisionPrimary, ""},
		{DecisionPrimary, "+"},
		{DecisionStorageType, "="},
	}
	for _, tt := range tests {
		t.Run(tt.decision.String()+"/"+tt.input, func(t *testing.T) {
			if alt, ok := DefaultTable().Predict(tt.decision, lookaheadOf(tt.input)); ok {
				t.Errorf("predicted alternative %d, want none", alt)
			}
		})
	}
}

func TestPredictStorageType(t *testing.T) {
	table := DefaultTable()
	local, _ := table.Predict(DecisionStorageType, lookaheadOf(":"))
	global, _ := table.Predict(DecisionStorageType, lookaheadOf("::"))
	if local != 0 || global != 1 {
		t.Errorf("got %d and %d, want 0 and 1", local, global)
	}
	if n := len(table.Alternatives(DecisionStorageType)); n != 2 {
		t.Errorf("StorageType has %d alternatives, want 2", n)
	}
}

func TestFirstSets(t *testing.T) {
	table := DefaultTable()
	first := table.First(RuleExpression)
	for _, k := range []TokenKind{TokenNumber, TokenString, TokenIdent, TokenLParen, TokenMinus, keywords["abs"].Token, TokenAnd} {
		if !first.Has(k) {
			t.Errorf("FIRST(Expression) lacks %v", k)
		}
	}
	for _, k := range []TokenKind{TokenRParen, TokenPlus, TokenColon} {
		if first.Has(k) {
			t.Errorf("FIRST(Expression) contains %v", k)
		}
	}

	expected := table.Expected(DecisionPrimary)
	if !expected.Has(TokenLParen) || expected.Has(TokenMinus) {
		t.Errorf("Expected(Primary) = %v", expected.Kinds())
	}

	decl := table.FirstOf("VariableDeclaration")
	if len(decl) != 1 || !decl.Has(TokenIdent) {
		t.Errorf("FIRST(VariableDeclaration) = %v", decl.Kinds())
	}
}

func TestProductions(t *testing.T) {
	names := DefaultTable().Productions()
	found := false
	for i, name := range names {
		if name == "Query" {
			found = true
		}
		if i > 0 && names[i-1] > name {
			t.Errorf("productions not sorted at %q", name)
		}
	}
	if !found {
		t.Error("Query missing from productions")
	}
}

const conflictGrammar = `
Query               = VariableDeclaration | Expression .
VariableDeclaration = VariableName StorageType Expression .
StorageType         = ":" | "::" .
VariableName        = identifier .
Expression          = UnaryExpression .
UnaryExpression     = PrimaryExpression | "-" PrimaryExpression .
PrimaryExpression   = NumberLiteral | VariableName | NumberLiteral .
NumberLiteral       = number .
identifier          = "a" .
number              = "1" .
`

func TestBuildTableReportsConflicts(t *testing.T) {
	g, err := ParseGrammar("conflict.ebnf", conflictGrammar)
	if err != nil {
		t.Fatalf("ParseGrammar: %v", err)
	}
	table, err := BuildTable(g)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	conflicts := table.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %v", len(conflicts), conflicts)
	}
	c := conflicts[0]
	if c.Decision != DecisionPrimary || len(c.Alternatives) != 2 || c.Alternatives[0] != 0 || c.Alternatives[1] != 2 {
		t.Errorf("conflict = %s", c)
	}
	if !strings.Contains(c.String(), "selects alternative 0") {
		t.Errorf("String() = %q", c.String())
	}

	alt, ok := table.Predict(DecisionPrimary, lookaheadOf("1"))
	if !ok || alt != 0 {
		t.Errorf("Predict = %d, %v, want first alternative", alt, ok)
	}
}

func TestBuildTableMissingDecision(t *testing.T) {
	g, err := ParseGrammar("small.ebnf", "Query = \"x\" .")
	if err != nil {
		t.Fatalf("ParseGrammar: %v", err)
	}
	if _, err := BuildTable(g); err == nil {
		t.Error("expected an error for a grammar without StorageType")
	}
}

func TestDefaultTableConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ParseQuery("total:sum(a+b*2)"); err != nil {
				t.Errorf("ParseQuery: %v", err)
			}
		}()
	}
	wg.Wait()
}
