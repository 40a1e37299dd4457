package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/qparse/q/parser"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return json.MarshalIndent(node, "", "  ")
}
