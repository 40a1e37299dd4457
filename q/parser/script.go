package parser

import "strings"

// Statement is one parsed line of a script.
type Statement struct {
	Line   int
	Source string
	Root   *Node
	Err    error
}

// ParseLines parses every line of script as a separate query. Lines without
// tokens, blank or comment-only, are skipped. WithStartLine sets the number
// of the first line.
func ParseLines(script string, opts ...Option) []Statement {
	p := NewParser(nil, opts...)
	first := p.startLine

	var stmts []Statement
	for i, line := range strings.Split(script, "\n") {
		line = strings.TrimRight(line, "\r")
		tokens := Tokenize([]byte(line), p.file, first+i)
		if len(tokens) == 1 {
			continue
		}
		p.Reset(tokens)
		root, err := p.Query()
		stmts = append(stmts, Statement{
			Line:   first + i,
			Source: line,
			Root:   root,
			Err:    err,
		})
	}
	return stmts
}
