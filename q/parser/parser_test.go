package parser

import (
	"errors"
	"strings"
	"testing"
)

// shape renders a tree compactly: leaf rules print their text, other nodes
// print as (Rule child...).
func shape(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.IsTerminal() {
		return n.Token.Literal
	}
	if n.IsError() {
		return "!"
	}
	if text := n.Text(); text != "" && len(n.Children) == 1 && !n.Rule.IsBuiltin() {
		return text
	}
	parts := []string{n.Rule.String()}
	for _, child := range n.Children {
		parts = append(parts, shape(child))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func builtinRule(keyword string) Rule {
	return keywords[keyword].Rule
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		rule  Rule
	}{
		{"42", RuleNumberLiteral},
		{`"text"`, RuleStringLiteral},
		{"x", RuleVariableName},
		{"(x)", RuleParenExpression},
		{"-x", RuleUnaryExpression},
		{"a*b", RuleMultiplicativeExpression},
		{"a+b", RuleAdditiveExpression},
		{"a=b", RuleEqualityExpression},
		{"a and b", RuleAndExpression},
		{"a or b", RuleOrExpression},
		{"1+2*3", RuleAdditiveExpression},
		{"(1+2)*3", RuleMultiplicativeExpression},
		{"abs(1)", builtinRule("abs")},
		{"not(x)", builtinRule("not")},
		{"and(1;2)", builtinRule("and")},
		{"select(a;b)", builtinRule("select")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q): %v", tt.input, err)
			}
			if root.Rule != tt.rule {
				t.Errorf("root rule = %s, want %s", root.Rule, tt.rule)
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "(AdditiveExpression 1 + (MultiplicativeExpression 2 * 3))"},
		{"1*2+3", "(AdditiveExpression (MultiplicativeExpression 1 * 2) + 3)"},
		{"a or b or c", "(OrExpression a or b or c)"},
		{"a+b+c", "(AdditiveExpression a + b + c)"},
		{"a or b and c", "(OrExpression a or (AndExpression b and c))"},
		{"a and b or c", "(OrExpression (AndExpression a and b) or c)"},
		{"a and b = c", "(AndExpression a and (EqualityExpression b = c))"},
		{"a = b + c", "(EqualityExpression a = (AdditiveExpression b + c))"},
		{"-a*b", "(MultiplicativeExpression (UnaryExpression - a) * b)"},
		{"(1+2)*3", "(MultiplicativeExpression (ParenExpression ( (AdditiveExpression 1 + 2) )) * 3)"},
		{"select(a+b;c)", "(Select select ( (AdditiveExpression a + b) ; c ))"},
		{"abs(abs(x))", "(Abs abs ( (Abs abs ( x )) ))"},
		{"and(1;2)", "(And and ( 1 ; 2 ))"},
		{"1 and 2", "(AndExpression 1 and 2)"},
		{"or(a;b) or c", "(OrExpression (Or or ( a ; b )) or c)"},
		{"-abs(1)", "(UnaryExpression - (Abs abs ( 1 )))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("ParseExpression(%q): %v", tt.input, err)
			}
			if got := shape(root); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestBuiltinRoundTrip(t *testing.T) {
	for _, b := range Builtins() {
		input := b.Keyword + "(1)"
		if b.Arity == Binary {
			input = b.Keyword + "(1;2)"
		}
		t.Run(input, func(t *testing.T) {
			root, err := ParseExpression(input)
			if err != nil {
				t.Fatalf("ParseExpression(%q): %v", input, err)
			}
			if root.Rule != b.Rule {
				t.Errorf("root rule = %s, want %s", root.Rule, b.Rule)
			}
			if kw := root.Keyword(); kw == nil || kw.Literal != b.Keyword {
				t.Errorf("Keyword() = %v", kw)
			}
			if got := len(root.Operands()); got != int(b.Arity) {
				t.Errorf("got %d operands, want %d", got, b.Arity)
			}
		})
	}
}

func TestSingleOperandLevelsAreTransparent(t *testing.T) {
	for _, input := range []string{"x", "1", "abs(x)", "-x", "a+b", "a or b and c"} {
		t.Run(input, func(t *testing.T) {
			bare, err := ParseExpression(input)
			if err != nil {
				t.Fatalf("ParseExpression(%q): %v", input, err)
			}
			wrapped, err := ParseExpression("(" + input + ")")
			if err != nil {
				t.Fatalf("ParseExpression((%q)): %v", input, err)
			}
			inner := wrapped.Operands()
			if len(inner) != 1 {
				t.Fatalf("paren has %d operands", len(inner))
			}
			if bare.String() != inner[0].String() {
				t.Errorf("bare tree\n%s\ndiffers from parenthesized operand\n%s", bare, inner[0])
			}
		})
	}
}

func TestParseVariableDeclaration(t *testing.T) {
	tests := []struct {
		input  string
		name   string
		global bool
		value  string
	}{
		{"a:1", "a", false, "1"},
		{"total::x+1", "total", true, "(AdditiveExpression x + 1)"},
		{"c:d", "c", false, "d"},
		{"r:select(t;w)", "r", false, "(Select select ( t ; w ))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseVariableDeclaration(tt.input)
			if err != nil {
				t.Fatalf("ParseVariableDeclaration(%q): %v", tt.input, err)
			}
			if root.Rule != RuleVariableDeclaration {
				t.Fatalf("root rule = %s", root.Rule)
			}
			if got := root.Name().Text(); got != tt.name {
				t.Errorf("name = %q, want %q", got, tt.name)
			}
			if got := root.Storage().IsGlobal(); got != tt.global {
				t.Errorf("global = %v, want %v", got, tt.global)
			}
			if got := shape(root.Value()); got != tt.value {
				t.Errorf("value = %s, want %s", got, tt.value)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		input string
		rule  Rule
	}{
		{"a:1", RuleVariableDeclaration},
		{"a::b", RuleVariableDeclaration},
		{"a+1", RuleAdditiveExpression},
		{"a", RuleVariableName},
		{"abs(1)", builtinRule("abs")},
		{"a = b", RuleEqualityExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseQuery(tt.input)
			if err != nil {
				t.Fatalf("ParseQuery(%q): %v", tt.input, err)
			}
			if root.Rule != tt.rule {
				t.Errorf("root rule = %s, want %s", root.Rule, tt.rule)
			}
		})
	}
}

func TestMissingCloseParenAborts(t *testing.T) {
	root, err := ParseExpression("abs(1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrAborted) {
		t.Errorf("error %v does not match ErrAborted", err)
	}

	var list ErrorList
	if !errors.As(err, &list) || len(list) != 1 {
		t.Fatalf("got errors %v, want exactly one", err)
	}
	if list[0].Rule != builtinRule("abs") {
		t.Errorf("error rule = %s, want Abs", list[0].Rule)
	}

	if root.Rule != builtinRule("abs") {
		t.Fatalf("partial root rule = %s, want Abs", root.Rule)
	}
	operands := root.Operands()
	if len(operands) != 1 || operands[0].Text() != "1" {
		t.Errorf("partial operands = %v", operands)
	}
	if len(root.Errors()) != 1 {
		t.Errorf("tree holds %d error markers, want 1", len(root.Errors()))
	}
}

func TestErrorRecovery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kinds     []error
		aborted   bool
		shape     string
		recovered bool
	}{
		{
			name:      "missing separator is inserted",
			input:     "select(a b)",
			kinds:     []error{ErrMismatch},
			shape:     "(Select select ( a ! b ))",
			recovered: true,
		},
		{
			name:      "extra token is deleted",
			input:     "abs(1 2)",
			kinds:     []error{ErrMismatch},
			shape:     "(Abs abs ( 1 ! ))",
			recovered: true,
		},
		{
			name:      "missing open paren is inserted",
			input:     "abs 1)",
			kinds:     []error{ErrMismatch},
			shape:     "(Abs abs ! 1 ))",
			recovered: true,
		},
		{
			name:  "trailing input",
			input: "abs(1))",
			kinds: []error{ErrExtraneous},
			shape: "(Abs abs ( 1 ) !)",
		},
		{
			name:  "missing operand",
			input: "1 + )",
			kinds: []error{ErrNoViable, ErrExtraneous},
			shape: "(AdditiveExpression 1 + ! !)",
		},
		{
			name:  "unexpected token",
			input: "1 + @",
			kinds: []error{ErrNoViable},
			shape: "(AdditiveExpression 1 + !)",
		},
		{
			name:    "end of input after operator",
			input:   "1 +",
			kinds:   []error{ErrAborted},
			aborted: true,
			shape:   "(AdditiveExpression 1 + !)",
		},
		{
			name:    "empty input",
			input:   "",
			kinds:   []error{ErrAborted},
			aborted: true,
			shape:   "!",
		},
		{
			name:    "unterminated binary form",
			input:   "select(a;",
			kinds:   []error{ErrAborted},
			aborted: true,
			shape:   "(Select select ( a ; !)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(Tokenize([]byte(tt.input), "", 1))
			root, err := p.Expression()
			if err == nil {
				t.Fatal("expected an error")
			}
			list := p.Errors()
			if len(list) != len(tt.kinds) {
				t.Fatalf("got %d errors (%v), want %d", len(list), err, len(tt.kinds))
			}
			for i, kind := range tt.kinds {
				if !errors.Is(list[i], kind) {
					t.Errorf("error %d = %v, want %v", i, list[i], kind)
				}
			}
			if p.Aborted() != tt.aborted {
				t.Errorf("Aborted() = %v, want %v", p.Aborted(), tt.aborted)
			}
			if list[0].Recovered != tt.recovered {
				t.Errorf("Recovered = %v, want %v", list[0].Recovered, tt.recovered)
			}
			if got := shape(root); got != tt.shape {
				t.Errorf("got  %s\nwant %s", got, tt.shape)
			}
			if got := len(root.Errors()); got != len(list) {
				t.Errorf("tree holds %d error markers, want %d", got, len(list))
			}
		})
	}
}

func TestDeletedTokenIsKept(t *testing.T) {
	root, _ := ParseExpression("abs(1 2)")
	markers := root.ChildrenOfRule(RuleError)
	if len(markers) != 1 {
		t.Fatalf("got %d markers", len(markers))
	}
	if got := markers[0].Children[0].Token.Literal; got != "2" {
		t.Errorf("skipped token = %q, want %q", got, "2")
	}
}

func TestVariableDeclarationRecovery(t *testing.T) {
	root, err := ParseVariableDeclaration("a 1")
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("error = %v, want a mismatch", err)
	}
	if root.Value() == nil || root.Value().Text() != "1" {
		t.Errorf("value = %v, want 1", shape(root.Value()))
	}

	_, err = ParseVariableDeclaration("a:")
	if !errors.Is(err, ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
}

func TestBailStrategy(t *testing.T) {
	var reported []*SyntaxError
	p := NewParser(Tokenize([]byte("select(a b) + )"), "", 1),
		WithErrorStrategy(BailStrategy{}),
		WithErrorListener(ErrorListenerFunc(func(err *SyntaxError) {
			reported = append(reported, err)
		})),
	)
	_, err := p.Expression()
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("error = %v, want a mismatch", err)
	}
	if !p.Aborted() {
		t.Error("bail strategy did not abort")
	}
	if len(p.Errors()) != 1 || len(reported) != 1 {
		t.Errorf("got %d errors and %d reports, want 1 each", len(p.Errors()), len(reported))
	}
	if reported[0].Recovered {
		t.Error("bail strategy recovered")
	}
}

func TestErrorListenerSeesEveryError(t *testing.T) {
	var reported []*SyntaxError
	p := NewParser(Tokenize([]byte("1 + )"), "", 1),
		WithErrorListener(ErrorListenerFunc(func(err *SyntaxError) {
			reported = append(reported, err)
		})),
	)
	p.Expression()
	if len(reported) != len(p.Errors()) || len(reported) != 2 {
		t.Fatalf("listener saw %d errors, parser recorded %d", len(reported), len(p.Errors()))
	}
	for i := range reported {
		if reported[i] != p.Errors()[i] {
			t.Errorf("error %d differs", i)
		}
	}
}

func TestMaxDepth(t *testing.T) {
	if _, err := ParseExpression("((1))", WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3: %v", err)
	}
	_, err := ParseExpression("((((1))))", WithMaxDepth(3))
	if !errors.Is(err, ErrAborted) {
		t.Errorf("error = %v, want ErrAborted", err)
	}
	deep := strings.Repeat("abs(", 600) + "1" + strings.Repeat(")", 600)
	if _, err := ParseExpression(deep); !errors.Is(err, ErrAborted) {
		t.Errorf("default depth: error = %v, want ErrAborted", err)
	}
	if _, err := ParseExpression(deep, WithMaxDepth(0)); err != nil {
		t.Errorf("unlimited depth: %v", err)
	}
}

func TestSpans(t *testing.T) {
	root, err := ParseExpression("x + abs(1)", WithFile("span.q"))
	if err != nil {
		t.Fatal(err)
	}
	if root.Span.Start.Offset != 0 || root.Span.End.Offset != 10 {
		t.Errorf("root span = %d..%d, want 0..10", root.Span.Start.Offset, root.Span.End.Offset)
	}
	call := root.Operands()[1]
	if call.Span.Start.Offset != 4 || call.Span.End.Offset != 10 {
		t.Errorf("call span = %d..%d, want 4..10", call.Span.Start.Offset, call.Span.End.Offset)
	}
	if call.Span.Start.File != "span.q" {
		t.Errorf("file = %q", call.Span.Start.File)
	}
}

func TestParserReuse(t *testing.T) {
	p := NewParser(Tokenize([]byte("a+b*c"), "", 1))
	first, err := p.Expression()
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Expression()
	if err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("second parse differs:\n%s\n%s", first, second)
	}

	p.Reset(Tokenize([]byte("1 +"), "", 1))
	if _, err := p.Expression(); err == nil || !p.Aborted() {
		t.Error("reset parser did not parse new input")
	}
	p.Reset(Tokenize([]byte("q:1"), "", 1))
	if _, err := p.Query(); err != nil || p.Aborted() {
		t.Errorf("state leaked across Reset: %v", err)
	}
}

func TestCustomTokenSource(t *testing.T) {
	span := Span{}
	src := TokenSlice{
		{Kind: TokenIdent, Literal: "x", Span: span},
		{Kind: TokenPlus, Literal: "+", Span: span},
		{Kind: TokenNumber, Literal: "1", Span: span},
	}
	root, err := NewParser(src).Expression()
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	if got := shape(root); got != "(AdditiveExpression x + 1)" {
		t.Errorf("got %s", got)
	}
}
