package parser

import (
	"errors"
	"testing"
)

func TestParseLines(t *testing.T) {
	script := "a:1\n\n/ the total\nb::a+1\r\nabs(\n"
	stmts := ParseLines(script, WithFile("s.q"), WithStartLine(10))

	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}

	tests := []struct {
		line int
		rule Rule
		err  error
	}{
		{10, RuleVariableDeclaration, nil},
		{13, RuleVariableDeclaration, nil},
		{14, builtinRule("abs"), ErrAborted},
	}
	for i, tt := range tests {
		st := stmts[i]
		if st.Line != tt.line {
			t.Errorf("statement %d: line %d, want %d", i, st.Line, tt.line)
		}
		if st.Root.Rule != tt.rule {
			t.Errorf("statement %d: rule %s, want %s", i, st.Root.Rule, tt.rule)
		}
		if tt.err == nil && st.Err != nil {
			t.Errorf("statement %d: %v", i, st.Err)
		}
		if tt.err != nil && !errors.Is(st.Err, tt.err) {
			t.Errorf("statement %d: error %v, want %v", i, st.Err, tt.err)
		}
		if got := st.Root.Span.Start.Line; got != tt.line {
			t.Errorf("statement %d: root starts on line %d", i, got)
		}
		if got := st.Root.Span.Start.File; got != "s.q" {
			t.Errorf("statement %d: file %q", i, got)
		}
	}
	if stmts[1].Source != "b::a+1" {
		t.Errorf("source = %q", stmts[1].Source)
	}
}
