package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/qparse/q/parser"
)

// SExprEncoder writes a tree as one s-expression per line. Chains print as
// (op operand...), calls as (keyword arg...), declarations as (: name value)
// and parentheses vanish.
type SExprEncoder struct {
	w io.Writer
}

func NewSExprEncoder(w io.Writer) *SExprEncoder {
	return &SExprEncoder{w: w}
}

func (e *SExprEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SExprEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	var sb strings.Builder
	writeSExpr(&sb, node)
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func writeSExpr(sb *strings.Builder, n *parser.Node) {
	switch {
	case n == nil:
		sb.WriteString("nil")
	case n.IsTerminal():
		sb.WriteString(n.Token.Literal)
	case n.IsError():
		fmt.Fprintf(sb, "(error %q", n.Error.Message)
		for _, child := range n.Children {
			sb.WriteByte(' ')
			writeSExpr(sb, child)
		}
		sb.WriteByte(')')
	case n.Rule == parser.RuleParenExpression:
		writeList(sb, "", n)
	case n.Rule == parser.RuleVariableDeclaration:
		op := ":"
		if n.Storage() != nil && n.Storage().IsGlobal() {
			op = "::"
		}
		writeList(sb, op, n)
	case n.Rule.IsBuiltin():
		b, _ := n.Builtin()
		writeList(sb, b.Keyword, n)
	case len(n.Operators()) > 0:
		writeList(sb, n.Operators()[0].Literal, n)
	case n.Text() != "":
		sb.WriteString(n.Text())
	default:
		writeList(sb, n.Rule.String(), n)
	}
}

// writeList writes head followed by the non-terminal children of n. An
// empty head with a single child writes the child alone.
func writeList(sb *strings.Builder, head string, n *parser.Node) {
	var items []*parser.Node
	for _, child := range n.Children {
		if child.IsTerminal() || child.Rule == parser.RuleStorageType {
			continue
		}
		items = append(items, child)
	}
	if head == "" && len(items) == 1 {
		writeSExpr(sb, items[0])
		return
	}

	sb.WriteByte('(')
	sb.WriteString(head)
	for i, item := range items {
		if i > 0 || head != "" {
			sb.WriteByte(' ')
		}
		writeSExpr(sb, item)
	}
	sb.WriteByte(')')
}
