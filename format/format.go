package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/qparse/q/parser"
)

// Encoder writes syntax trees to an output stream.
type Encoder interface {
	Encode(node *parser.Node) error
}

// Names lists the tree formats NewEncoder accepts.
var Names = []string{"tree", "json", "sexp"}

// NewEncoder returns the encoder for the named format. positions only
// affects the tree format.
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w, positions), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "sexp":
		return NewSExprEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
