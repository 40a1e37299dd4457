// Package parser implements a predictive recursive-descent parser for a
// compact q-style query language.
//
// # Overview
//
// Source text is classified by the Lexer into a TokenSource. The Parser
// reads it through a forward-only cursor and builds a concrete syntax tree
// of Nodes, consulting a DecisionTable wherever the grammar offers a choice.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Lexer     │────▶│ TokenSource │────▶│   Parser    │────▶│   Walker    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │     │ (Listener)  │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │DecisionTable│
//	                                        │  (LL(2))    │
//	                                        └─────────────┘
//
// # Grammar
//
// The grammar is written in EBNF (golang.org/x/exp/ebnf notation) and
// embedded in the package; see GrammarSource. Expressions form a precedence
// chain, loosest first:
//
//	or  <  and  <  =  <  +  <  *  <  unary -  <  primary
//
// A chain level with a single operand is transparent: "1" parses to a
// NumberLiteral, not to an OrExpression wrapping it. A level with operators
// yields one flat node whose children alternate operands and operators, so
// "a or b or c" is a single OrExpression with three operands.
//
// The built-in call forms (abs, select, xrank and the rest) are data: each
// catalogue entry names its keyword and arity, and one generic routine
// parses
//
//	keyword "(" Expression ")"                  unary form
//	keyword "(" Expression ";" Expression ")"   binary form
//
// Each form has its own Rule so consumers can tell them apart.
//
// # Prediction
//
// The DecisionTable is computed from the grammar once per process and is
// safe for concurrent use. It maps up to two tokens of lookahead to an
// alternative; two tokens are needed to tell a declaration "a:1" from an
// expression "a+1".
//
// # Errors
//
// A failed match is handed to the ErrorStrategy. DefaultStrategy deletes or
// inserts a single token when the lookahead allows and otherwise abandons
// the rule, leaving an error Node in the tree. Running out of input inside a
// rule is structural: the parse stops and the partial tree is returned with
// an ErrorList that matches ErrAborted.
//
//	root, err := parser.ParseExpression("abs(1")
//	// root: Abs node holding "abs", "(", NumberLiteral 1 and an error marker
//	// errors.Is(err, parser.ErrAborted) == true
//
// # Walking
//
// A Listener holds optional enter and exit callbacks per Rule:
//
//	l := parser.NewListener().
//	    OnEnter(parser.RuleVariableName, func(n *parser.Node) {
//	        fmt.Println(n.Text())
//	    })
//	parser.Walk(l, root)
package parser
