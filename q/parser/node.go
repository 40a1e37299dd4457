package parser

import "strings"

// Node is a syntax tree node. Terminal leaves are RuleToken nodes with a
// Token; error markers are RuleError nodes with an Error. Parent is a
// navigation-only back reference maintained by AddChild.
type Node struct {
	Rule     Rule
	Span     Span
	Parent   *Node
	Children []*Node
	Token    *Token
	Error    *SyntaxError
}

func newTerminal(tok Token) *Node {
	return &Node{Rule: RuleToken, Token: &tok, Span: tok.Span}
}

func newErrorNode(err *SyntaxError) *Node {
	return &Node{Rule: RuleError, Error: err, Span: err.Got.Span}
}

func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) IsError() bool {
	return n.Rule == RuleError
}

func (n *Node) IsTerminal() bool {
	return n.Rule == RuleToken
}

func (n *Node) FirstChildOfRule(rule Rule) *Node {
	for _, child := range n.Children {
		if child.Rule == rule {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfRule(rule Rule) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Rule == rule {
			result = append(result, child)
		}
	}
	return result
}

// Operands returns the non-terminal children that are not error markers:
// the operands of a precedence chain or the arguments of a call form.
func (n *Node) Operands() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if !child.IsTerminal() && !child.IsError() {
			result = append(result, child)
		}
	}
	return result
}

// Operators returns the operator tokens between the operands of a
// precedence chain node.
func (n *Node) Operators() []*Token {
	switch n.Rule {
	case RuleOrExpression, RuleAndExpression, RuleEqualityExpression,
		RuleAdditiveExpression, RuleMultiplicativeExpression, RuleUnaryExpression:
	default:
		return nil
	}
	var result []*Token
	for _, child := range n.Children {
		if child.IsTerminal() {
			result = append(result, child.Token)
		}
	}
	return result
}

func (n *Node) operand(i int) *Node {
	ops := n.Operands()
	if i < len(ops) {
		return ops[i]
	}
	return nil
}

// Arg returns the single operand of a unary call form, a unary minus or a
// parenthesized expression.
func (n *Node) Arg() *Node {
	return n.operand(0)
}

// Left returns the first operand; for binary call forms, the expression
// before the separator.
func (n *Node) Left() *Node {
	return n.operand(0)
}

// Right returns the second operand; for binary call forms, the expression
// after the separator.
func (n *Node) Right() *Node {
	return n.operand(1)
}

// Builtin returns the catalogue entry of a call node.
func (n *Node) Builtin() (Builtin, bool) {
	return BuiltinForRule(n.Rule)
}

// Keyword returns the keyword token of a call node.
func (n *Node) Keyword() *Token {
	b, ok := n.Builtin()
	if !ok {
		return nil
	}
	for _, child := range n.Children {
		if child.IsTerminal() && child.Token.Kind == b.Token {
			return child.Token
		}
	}
	return nil
}

// Name returns the VariableName of a variable declaration.
func (n *Node) Name() *Node {
	if n.Rule != RuleVariableDeclaration {
		return nil
	}
	return n.FirstChildOfRule(RuleVariableName)
}

// Storage returns the StorageType of a variable declaration.
func (n *Node) Storage() *Node {
	if n.Rule != RuleVariableDeclaration {
		return nil
	}
	return n.FirstChildOfRule(RuleStorageType)
}

// Value returns the assigned expression of a variable declaration.
func (n *Node) Value() *Node {
	if n.Rule != RuleVariableDeclaration {
		return nil
	}
	seenStorage := false
	for _, child := range n.Children {
		switch {
		case child.Rule == RuleStorageType:
			seenStorage = true
		case seenStorage && !child.IsTerminal() && !child.IsError():
			return child
		}
	}
	return nil
}

// IsGlobal reports whether a StorageType node is the global "::" form.
func (n *Node) IsGlobal() bool {
	return n.Rule == RuleStorageType && n.Text() == "::"
}

// Text returns the token text of a terminal, or of the single terminal of a
// leaf rule such as VariableName or NumberLiteral.
func (n *Node) Text() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	if len(n.Children) == 1 && n.Children[0].IsTerminal() {
		return n.Children[0].Token.Literal
	}
	return ""
}

// Errors returns the errors attached to error markers in the subtree of n.
func (n *Node) Errors() []*SyntaxError {
	var result []*SyntaxError
	var visit func(*Node)
	visit = func(m *Node) {
		if m.Error != nil {
			result = append(result, m.Error)
		}
		for _, child := range m.Children {
			visit(child)
		}
	}
	visit(n)
	return result
}

// Root returns the top of the tree n belongs to.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Rule.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
