package parser

import "fmt"

// DefaultMaxDepth bounds how deeply expressions may nest through
// parentheses and call forms.
const DefaultMaxDepth = 512

type Option func(*Parser)

// WithFile sets the file name recorded in token positions when the parser
// lexes its own input.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithStartLine sets the line number of the first line of lexed input.
func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithTable sets the decision table. The default is DefaultTable().
func WithTable(t *DecisionTable) Option {
	return func(p *Parser) {
		p.table = t
	}
}

func WithErrorStrategy(s ErrorStrategy) Option {
	return func(p *Parser) {
		p.strategy = s
	}
}

// WithErrorListener adds a sink that receives every error as it is
// reported.
func WithErrorListener(l ErrorListener) Option {
	return func(p *Parser) {
		p.listeners = append(p.listeners, l)
	}
}

// WithMaxDepth sets the nesting limit; zero or less disables it.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

type parseFunc func(*Parser) *Node

// Parser is a predictive recursive-descent parser over a TokenSource. A
// Parser is not safe for concurrent use; the DecisionTable it consults is.
type Parser struct {
	file      string
	startLine int
	table     *DecisionTable
	strategy  ErrorStrategy
	listeners []ErrorListener
	maxDepth  int

	cur       cursor
	errors    ErrorList
	aborted   bool
	depth     int
	exprFirst TokenSet
}

func NewParser(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		startLine: 1,
		strategy:  DefaultStrategy{},
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.table == nil {
		p.table = DefaultTable()
	}
	p.exprFirst = p.table.First(RuleExpression)
	p.Reset(src)
	return p
}

// Reset points the parser at a new token source and clears its errors.
func (p *Parser) Reset(src TokenSource) {
	p.cur = cursor{src: src}
	p.errors = nil
	p.aborted = false
	p.depth = 0
}

// Errors returns the errors of the most recent parse.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

// Aborted reports whether the most recent parse ended in a structural
// failure.
func (p *Parser) Aborted() bool {
	return p.aborted
}

// Expression parses the whole input as one expression. The returned tree is
// never nil; err is nil or an ErrorList.
func (p *Parser) Expression() (*Node, error) {
	return p.run((*Parser).parseExpression)
}

// VariableDeclaration parses the whole input as name, storage type and
// value expression.
func (p *Parser) VariableDeclaration() (*Node, error) {
	return p.run((*Parser).parseVariableDeclaration)
}

// Query parses either a variable declaration or an expression, whichever
// the first two tokens select.
func (p *Parser) Query() (*Node, error) {
	return p.run((*Parser).parseQuery)
}

func (p *Parser) run(entry parseFunc) (*Node, error) {
	p.Reset(p.cur.src)
	root := entry(p)
	if root == nil {
		root = &Node{Rule: RuleError}
	}
	p.expectEOF(root)
	return root, p.errors.Err()
}

// ParseExpression lexes src and parses it as an expression.
func ParseExpression(src string, opts ...Option) (*Node, error) {
	return newStringParser(src, opts).Expression()
}

// ParseVariableDeclaration lexes src and parses it as a variable
// declaration.
func ParseVariableDeclaration(src string, opts ...Option) (*Node, error) {
	return newStringParser(src, opts).VariableDeclaration()
}

// ParseQuery lexes src and parses it as a query.
func ParseQuery(src string, opts ...Option) (*Node, error) {
	return newStringParser(src, opts).Query()
}

func newStringParser(src string, opts []Option) *Parser {
	p := NewParser(nil, opts...)
	p.Reset(Tokenize([]byte(src), p.file, p.startLine))
	return p
}

func (p *Parser) la(k int) TokenKind {
	return p.cur.LA(k)
}

func (p *Parser) lt(k int) Token {
	return p.cur.LT(k)
}

func (p *Parser) terminal() *Node {
	return newTerminal(p.cur.consume())
}

func (p *Parser) startNode(rule Rule) *Node {
	return &Node{
		Rule: rule,
		Span: Span{Start: p.lt(1).Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	n.Span.End = n.Span.Start
	if tok, ok := p.cur.last(); ok && tok.Span.End.Offset > n.Span.Start.Offset {
		n.Span.End = tok.Span.End
	}
	return n
}

// report records err and hands it to the listeners. Errors after a
// structural failure are suppressed: they would only echo it.
func (p *Parser) report(err *SyntaxError) {
	if p.aborted {
		return
	}
	p.errors = append(p.errors, err)
	for _, l := range p.listeners {
		l.SyntaxError(err)
	}
	if err.Kind == ErrStructural || p.strategy.Fatal(err) {
		p.aborted = true
	}
}

// match consumes a token of the given kind into n. follow holds the tokens
// that may come right after it; it drives insertion recovery.
func (p *Parser) match(n *Node, kind TokenKind, follow TokenSet) bool {
	if p.aborted {
		return false
	}
	if p.la(1) == kind {
		n.AddChild(p.terminal())
		return true
	}

	got := p.lt(1)
	if got.Kind == TokenEOF {
		p.structural(n, fmt.Sprintf("unexpected end of input, expected %q", kind), kind)
		return false
	}

	err := &SyntaxError{
		Kind:     ErrMismatchedToken,
		Rule:     n.Rule,
		Got:      got,
		Expected: []TokenKind{kind},
		Message:  fmt.Sprintf("expected %q", kind),
	}
	switch p.strategy.Recover(&p.cur, kind, follow) {
	case RecoverDelete:
		err.Recovered = true
		err.Message = fmt.Sprintf("extraneous %q, expected %q", got.Literal, kind)
		marker := newErrorNode(err)
		marker.AddChild(p.terminal())
		n.AddChild(marker)
		p.report(err)
		n.AddChild(p.terminal())
		return true
	case RecoverInsert:
		err.Recovered = true
		err.Message = fmt.Sprintf("missing %q", kind)
		marker := newErrorNode(err)
		marker.Span.End = marker.Span.Start
		n.AddChild(marker)
		p.report(err)
		return !p.aborted
	}
	n.AddChild(newErrorNode(err))
	p.report(err)
	return false
}

func (p *Parser) structural(n *Node, msg string, expected ...TokenKind) {
	err := &SyntaxError{
		Kind:     ErrStructural,
		Rule:     n.Rule,
		Got:      p.lt(1),
		Expected: expected,
		Message:  msg,
	}
	n.AddChild(newErrorNode(err))
	p.report(err)
}

// noViableAlternative abandons rule at decision d. The offending token is
// consumed into the marker unless it can close an enclosing rule.
func (p *Parser) noViableAlternative(rule Rule, d Decision, msg string) *Node {
	if p.aborted {
		return nil
	}
	got := p.lt(1)
	err := &SyntaxError{
		Kind:     ErrNoViableAlternative,
		Rule:     rule,
		Got:      got,
		Expected: p.table.Expected(d).Kinds(),
		Message:  msg,
	}
	if got.Kind == TokenEOF {
		err.Kind = ErrStructural
		err.Message = "unexpected end of input, " + msg
	}
	marker := newErrorNode(err)
	if !isSyncToken(got.Kind) {
		marker.AddChild(p.terminal())
	}
	p.report(err)
	return marker
}

func isSyncToken(kind TokenKind) bool {
	switch kind {
	case TokenEOF, TokenRParen, TokenSemicolon:
		return true
	}
	return false
}

// expectEOF wraps input left after the entry rule in an error marker.
func (p *Parser) expectEOF(root *Node) {
	if p.aborted || p.la(1) == TokenEOF {
		return
	}
	err := &SyntaxError{
		Kind:     ErrExtraneousInput,
		Rule:     root.Rule,
		Got:      p.lt(1),
		Expected: []TokenKind{TokenEOF},
		Message:  fmt.Sprintf("extraneous input %q", p.lt(1).Literal),
	}
	marker := newErrorNode(err)
	for p.la(1) != TokenEOF {
		marker.AddChild(p.terminal())
	}
	if tok, ok := p.cur.last(); ok {
		marker.Span.End = tok.Span.End
	}
	root.AddChild(marker)
	p.report(err)
}

func (p *Parser) parseQuery() *Node {
	alt, ok := p.table.Predict(DecisionQuery, &p.cur)
	if ok && p.table.Alternative(DecisionQuery, alt).Rule == RuleVariableDeclaration {
		return p.parseVariableDeclaration()
	}
	return p.parseExpression()
}

func (p *Parser) parseVariableDeclaration() *Node {
	node := p.startNode(RuleVariableDeclaration)
	node.AddChild(p.parseVariableName())
	node.AddChild(p.parseStorageType())
	if !p.aborted {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

var storageFirst = NewTokenSet(TokenColon, TokenColonColon)

func (p *Parser) parseVariableName() *Node {
	node := p.startNode(RuleVariableName)
	p.match(node, TokenIdent, storageFirst)
	return p.finishNode(node)
}

func (p *Parser) parseStorageType() *Node {
	if p.aborted {
		return nil
	}
	node := p.startNode(RuleStorageType)
	if _, ok := p.table.Predict(DecisionStorageType, &p.cur); ok {
		node.AddChild(p.terminal())
	} else {
		p.match(node, TokenColon, p.exprFirst)
	}
	return p.finishNode(node)
}

func (p *Parser) parseExpression() *Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		if p.aborted {
			return nil
		}
		err := &SyntaxError{
			Kind:    ErrStructural,
			Rule:    RuleExpression,
			Got:     p.lt(1),
			Message: fmt.Sprintf("expression nested deeper than %d levels", p.maxDepth),
		}
		p.report(err)
		return newErrorNode(err)
	}
	return p.parseOrExpr()
}

// parseChain parses operand { op operand }. A single operand is returned
// as is; two or more become flat siblings of one node.
func (p *Parser) parseChain(rule Rule, op TokenKind, operand parseFunc) *Node {
	left := operand(p)
	if left == nil || p.aborted || p.la(1) != op {
		return left
	}
	node := &Node{Rule: rule, Span: Span{Start: left.Span.Start}}
	node.AddChild(left)
	for !p.aborted && p.la(1) == op {
		node.AddChild(p.terminal())
		node.AddChild(operand(p))
	}
	return p.finishNode(node)
}

func (p *Parser) parseOrExpr() *Node {
	return p.parseChain(RuleOrExpression, TokenOr, (*Parser).parseAndExpr)
}

func (p *Parser) parseAndExpr() *Node {
	return p.parseChain(RuleAndExpression, TokenAnd, (*Parser).parseEqualityExpr)
}

func (p *Parser) parseEqualityExpr() *Node {
	return p.parseChain(RuleEqualityExpression, TokenEQ, (*Parser).parseAdditiveExpr)
}

func (p *Parser) parseAdditiveExpr() *Node {
	return p.parseChain(RuleAdditiveExpression, TokenPlus, (*Parser).parseMultiplicativeExpr)
}

func (p *Parser) parseMultiplicativeExpr() *Node {
	return p.parseChain(RuleMultiplicativeExpression, TokenStar, (*Parser).parseUnaryExpr)
}

func (p *Parser) parseUnaryExpr() *Node {
	alt, ok := p.table.Predict(DecisionUnary, &p.cur)
	if !ok || p.table.Alternative(DecisionUnary, alt).Rule != RuleUnaryExpression {
		return p.parsePrimaryExpr()
	}
	node := p.startNode(RuleUnaryExpression)
	node.AddChild(p.terminal())
	node.AddChild(p.parsePrimaryExpr())
	return p.finishNode(node)
}

func (p *Parser) parsePrimaryExpr() *Node {
	if p.aborted {
		return nil
	}
	alt, ok := p.table.Predict(DecisionPrimary, &p.cur)
	if !ok {
		return p.noViableAlternative(RulePrimaryExpression, DecisionPrimary, "expected expression")
	}

	switch rule := p.table.Alternative(DecisionPrimary, alt).Rule; rule {
	case RuleNumberLiteral, RuleStringLiteral, RuleVariableName:
		node := p.startNode(rule)
		node.AddChild(p.terminal())
		return p.finishNode(node)
	case RuleParenExpression:
		return p.parseParenExpr()
	default:
		b, ok := BuiltinForRule(rule)
		if !ok {
			return p.noViableAlternative(RulePrimaryExpression, DecisionPrimary, "expected expression")
		}
		return p.parseCall(b)
	}
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(RuleParenExpression)
	node.AddChild(p.terminal())
	node.AddChild(p.parseExpression())
	p.match(node, TokenRParen, nil)
	return p.finishNode(node)
}

// parseCall parses every built-in call form: the keyword, "(", one
// expression or two separated by ";", and ")".
func (p *Parser) parseCall(b Builtin) *Node {
	node := p.startNode(b.Rule)
	node.AddChild(p.terminal())
	if !p.match(node, TokenLParen, p.exprFirst) {
		return p.finishNode(node)
	}
	node.AddChild(p.parseExpression())
	if b.Arity == Binary {
		if !p.match(node, TokenSemicolon, p.exprFirst) {
			return p.finishNode(node)
		}
		node.AddChild(p.parseExpression())
	}
	p.match(node, TokenRParen, nil)
	return p.finishNode(node)
}
