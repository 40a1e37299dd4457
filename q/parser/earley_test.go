package parser

import (
	"strings"
	"testing"

	"golang.org/x/exp/ebnf"
)

func newTestRecognizer(t *testing.T, src string) *Recognizer {
	t.Helper()
	g, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	r, err := NewRecognizer(g)
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	return r
}

func TestRecognizerAmbiguousGrammar(t *testing.T) {
	r := newTestRecognizer(t, `Sum = Sum "+" Sum | number .`)

	tests := []struct {
		input string
		ok    bool
	}{
		{"1", true},
		{"1+2", true},
		{"1+2+3+4", true},
		{"", false},
		{"1+", false},
		{"+1", false},
		{"1 2", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := r.Recognize("Sum", Tokenize([]byte(tt.input), "", 1))
			if (err == nil) != tt.ok {
				t.Errorf("Recognize(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestRecognizerNullableRepetition(t *testing.T) {
	r := newTestRecognizer(t, `Signed = { Sign } number [ "*" number ] .
Sign = "-" | "+" .`)

	for _, input := range []string{"1", "-1", "+-+1", "2*3", "--2*3"} {
		if err := r.Recognize("Signed", Tokenize([]byte(input), "", 1)); err != nil {
			t.Errorf("Recognize(%q) = %v", input, err)
		}
	}
	for _, input := range []string{"-", "1*", "*1"} {
		if err := r.Recognize("Signed", Tokenize([]byte(input), "", 1)); err == nil {
			t.Errorf("Recognize(%q) accepted", input)
		}
	}
}

func TestRecognizerErrorPosition(t *testing.T) {
	r := newTestRecognizer(t, `Sum = number { "+" number } .`)

	err := r.Recognize("Sum", Tokenize([]byte("1+2 3"), "in.q", 1))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "in.q:1:5:") {
		t.Errorf("error = %q, want position in.q:1:5", err)
	}

	err = r.Recognize("Sum", Tokenize([]byte("1+"), "", 1))
	if err == nil || !strings.Contains(err.Error(), "<EOF>") {
		t.Errorf("error = %v, want unexpected EOF", err)
	}
}

func TestRecognizerUnknownStart(t *testing.T) {
	r := newTestRecognizer(t, `Sum = number .`)
	if err := r.Recognize("Product", Tokenize([]byte("1"), "", 1)); err == nil {
		t.Error("expected an error for a missing production")
	}
}

func TestNewRecognizerRejectsUnknownTerminal(t *testing.T) {
	g, err := ebnf.Parse("bad.ebnf", strings.NewReader(`Sum = number "^" number .`))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	if _, err := NewRecognizer(g); err == nil {
		t.Error("expected an error for an unknown terminal")
	}
}

// The predictive parser must accept exactly the inputs the grammar
// generates.
func TestParserAgreesWithRecognizer(t *testing.T) {
	g, err := LoadGrammar()
	if err != nil {
		t.Fatalf("LoadGrammar: %v", err)
	}
	r, err := NewRecognizer(g)
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}

	inputs := []string{
		"1",
		"a",
		"-1",
		`"s"`,
		"a:1",
		"a::b+1",
		"1+2*3",
		"(1+2)*3",
		"1=2=3",
		"a and b or c",
		"abs(-1)",
		"and(1;2)",
		"xrank(1;(2))",
		`"s"=a`,
		"not(a)",
		"1+",
		"(1",
		"abs(1;2)",
		"aj(1)",
		"a:",
		":1",
		"1 2",
		"--1",
		"a-b",
		"()",
		")",
		"a:b:1",
		"abs 1",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, parseErr := ParseQuery(input)
			recErr := r.Recognize(StartProduction, Tokenize([]byte(input), "", 1))
			if (parseErr == nil) != (recErr == nil) {
				t.Errorf("parser error %v, recognizer error %v", parseErr, recErr)
			}
		})
	}
}
