package parser

import "encoding/json"

type jsonNode struct {
	Rule     string      `json:"rule"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    *jsonToken  `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
}

type jsonError struct {
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Expected  []string `json:"expected,omitempty"`
	Got       string   `json:"got,omitempty"`
	Recovered bool     `json:"recovered,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Rule: n.Rule.String(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: toJSONPosition(n.Span.Start),
			End:   toJSONPosition(n.Span.End),
		}
	}

	if n.Token != nil {
		jn.Token = &jsonToken{Kind: n.Token.Kind.String(), Literal: n.Token.Literal}
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Kind:      n.Error.Kind.String(),
			Message:   n.Error.Message,
			Got:       n.Error.Got.Literal,
			Recovered: n.Error.Recovered,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}

func toJSONPosition(p Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
