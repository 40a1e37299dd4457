package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/qparse/q/parser"
)

func mustParse(t *testing.T, src string) *parser.Node {
	t.Helper()
	root, err := parser.ParseQuery(src)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", src, err)
	}
	return root
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(name, &buf, false)
			if err != nil {
				t.Fatalf("NewEncoder(%q): %v", name, err)
			}
			if err := enc.Encode(mustParse(t, "a:1+2")); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("no output")
			}
		})
	}

	if _, err := NewEncoder("xml", &bytes.Buffer{}, false); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestSExprEncoder(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"a+b+c", "(+ a b c)"},
		{"1+2*3", "(+ 1 (* 2 3))"},
		{"(1+2)*3", "(* (+ 1 2) 3)"},
		{"-x", "(- x)"},
		{"a or b and c", "(or a (and b c))"},
		{"select(a=1;b)", "(select (= a 1) b)"},
		{"and(1;2)", "(and 1 2)"},
		{"x:abs(y)", "(: x (abs y))"},
		{"x::1", "(:: x 1)"},
		{`s:"text"`, `(: s "text")`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			text, err := NewSExprEncoder(nil).MarshalText(mustParse(t, tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSuffix(string(text), "\n"); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSExprEncoderErrors(t *testing.T) {
	root, _ := parser.ParseExpression("abs(1 2)")
	text, _ := NewSExprEncoder(nil).MarshalText(root)
	want := `(abs 1 (error "extraneous \"2\", expected \")\"" 2))` + "\n"
	if string(text) != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestTreeEncoder(t *testing.T) {
	root := mustParse(t, "a:1")

	var plain, positions bytes.Buffer
	if err := NewTreeEncoder(&plain, false).Encode(root); err != nil {
		t.Fatal(err)
	}
	if err := NewTreeEncoder(&positions, true).Encode(root); err != nil {
		t.Fatal(err)
	}
	if plain.String() != root.String() {
		t.Errorf("plain output = %q", plain.String())
	}
	if !strings.Contains(positions.String(), "[1:1-1:4]") {
		t.Errorf("positions output = %q", positions.String())
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(mustParse(t, "x+1")); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded["rule"] != "AdditiveExpression" {
		t.Errorf("rule = %v", decoded["rule"])
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Error("output does not end with a newline")
	}
}
