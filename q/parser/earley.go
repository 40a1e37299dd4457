package parser

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

// Recognizer decides whether a token sequence is in the language of a
// grammar using an Earley chart. It needs no prediction table, so it accepts
// any grammar, ambiguous ones included, and serves as a reference for the
// predictive parser.
type Recognizer struct {
	rules    map[string][][]symbol
	nullable map[string]bool
}

// symbol is one position of a flattened production: a token kind or the
// name of a rule.
type symbol struct {
	name     string
	kind     TokenKind
	terminal bool
}

func (s symbol) String() string {
	if s.terminal {
		return s.kind.String()
	}
	return s.name
}

// NewRecognizer flattens g into plain rules. Groups, options and
// repetitions become synthetic rules named after their production.
func NewRecognizer(g ebnf.Grammar) (*Recognizer, error) {
	f := &flattener{rules: make(map[string][][]symbol)}
	for name, prod := range g {
		if isLexical(name) {
			continue
		}
		f.rules[name] = f.alternatives(name, prod.Expr)
		if f.err != nil {
			return nil, f.err
		}
	}
	r := &Recognizer{rules: f.rules}
	r.computeNullable()
	return r, nil
}

type flattener struct {
	rules map[string][][]symbol
	fresh int
	err   error
}

func (f *flattener) alternatives(owner string, x ebnf.Expression) [][]symbol {
	switch x := x.(type) {
	case nil:
		return [][]symbol{{}}
	case ebnf.Alternative:
		var alts [][]symbol
		for _, e := range x {
			alts = append(alts, f.alternatives(owner, e)...)
		}
		return alts
	case ebnf.Sequence:
		seq := make([]symbol, 0, len(x))
		for _, e := range x {
			seq = append(seq, f.symbol(owner, e))
		}
		return [][]symbol{seq}
	case *ebnf.Group:
		return f.alternatives(owner, x.Body)
	case *ebnf.Option:
		return append(f.alternatives(owner, x.Body), []symbol{})
	case *ebnf.Repetition:
		name := f.synthetic(owner)
		body := f.symbol(owner, x.Body)
		f.rules[name] = [][]symbol{{}, {body, {name: name}}}
		return [][]symbol{{{name: name}}}
	}
	return [][]symbol{{f.symbol(owner, x)}}
}

func (f *flattener) symbol(owner string, x ebnf.Expression) symbol {
	switch x := x.(type) {
	case *ebnf.Token:
		kind, ok := lookupTerminal(x.String)
		if !ok {
			f.fail(x.Pos(), fmt.Errorf("unknown terminal %q", x.String))
		}
		return symbol{kind: kind, terminal: true}
	case *ebnf.Name:
		if isLexical(x.String) {
			kind, ok := lexicalKinds[x.String]
			if !ok {
				f.fail(x.Pos(), fmt.Errorf("token class %q has no token kind", x.String))
			}
			return symbol{kind: kind, terminal: true}
		}
		return symbol{name: x.String}
	case *ebnf.Range:
		f.fail(x.Pos(), fmt.Errorf("character range in syntactic production %s", owner))
		return symbol{}
	}
	name := f.synthetic(owner)
	f.rules[name] = f.alternatives(owner, x)
	return symbol{name: name}
}

func (f *flattener) synthetic(owner string) string {
	f.fresh++
	return fmt.Sprintf("%s#%d", owner, f.fresh)
}

func (f *flattener) fail(pos fmt.Stringer, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("%s: %w", pos, err)
	}
}

func (r *Recognizer) computeNullable() {
	r.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for name, alts := range r.rules {
			if r.nullable[name] {
				continue
			}
			for _, alt := range alts {
				if r.allNullable(alt) {
					r.nullable[name] = true
					changed = true
					break
				}
			}
		}
	}
}

func (r *Recognizer) allNullable(seq []symbol) bool {
	for _, s := range seq {
		if s.terminal || !r.nullable[s.name] {
			return false
		}
	}
	return true
}

// item is a dotted alternative together with the chart position it was
// predicted at.
type item struct {
	rule   string
	alt    int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen == nil {
		s.seen = make(map[item]bool)
	}
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognize reports whether the tokens of src before EOF form a start
// production. The error names the first token no item could scan.
func (r *Recognizer) Recognize(start string, src TokenSource) error {
	if _, ok := r.rules[start]; !ok {
		return fmt.Errorf("production %q not found in grammar", start)
	}

	var tokens []Token
	for i := 0; i < src.Len() && src.At(i).Kind != TokenEOF; i++ {
		tokens = append(tokens, src.At(i))
	}

	n := len(tokens)
	chart := make([]itemSet, n+1)
	for alt := range r.rules[start] {
		chart[0].add(item{rule: start, alt: alt})
	}

	for i := 0; i <= n; i++ {
		// items may be added while the set is processed
		for j := 0; j < len(chart[i].items); j++ {
			it := chart[i].items[j]
			seq := r.rules[it.rule][it.alt]
			if it.dot == len(seq) {
				r.complete(chart, i, it)
				continue
			}
			next := seq[it.dot]
			switch {
			case next.terminal:
				if i < n && tokens[i].Kind == next.kind {
					chart[i+1].add(advance(it))
				}
			default:
				for alt := range r.rules[next.name] {
					chart[i].add(item{rule: next.name, alt: alt, origin: i})
				}
				if r.nullable[next.name] {
					chart[i].add(advance(it))
				}
			}
		}
		if len(chart[i].items) == 0 {
			return unexpected(tokens, i-1, src)
		}
	}

	for _, it := range chart[n].items {
		if it.rule == start && it.origin == 0 && it.dot == len(r.rules[start][it.alt]) {
			return nil
		}
	}
	return unexpected(tokens, n, src)
}

func (r *Recognizer) complete(chart []itemSet, i int, done item) {
	for _, waiting := range chart[done.origin].items {
		seq := r.rules[waiting.rule][waiting.alt]
		if waiting.dot < len(seq) && !seq[waiting.dot].terminal && seq[waiting.dot].name == done.rule {
			chart[i].add(advance(waiting))
		}
	}
}

func advance(it item) item {
	it.dot++
	return it
}

func unexpected(tokens []Token, i int, src TokenSource) error {
	tok := src.At(len(tokens))
	if i >= 0 && i < len(tokens) {
		tok = tokens[i]
	}
	return fmt.Errorf("%s: grammar does not accept %s here", tok.Span.Start, tok)
}
