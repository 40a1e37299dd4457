package parser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

// Decision names a point in the grammar where more than one alternative can
// start with the same tokens.
type Decision int

const (
	DecisionQuery Decision = iota
	DecisionStorageType
	DecisionUnary
	DecisionPrimary
	numDecisions
)

var decisionProductions = [numDecisions]string{
	DecisionQuery:       "Query",
	DecisionStorageType: "StorageType",
	DecisionUnary:       "UnaryExpression",
	DecisionPrimary:     "PrimaryExpression",
}

func (d Decision) String() string {
	if d < 0 || d >= numDecisions {
		return "Unknown"
	}
	return decisionProductions[d]
}

// Alternative is one production choice at a decision. Rule is the rule of
// the referenced production when the alternative is a single production
// name, and the decision's own rule otherwise.
type Alternative struct {
	Index int
	Rule  Rule
	Expr  ebnf.Expression
}

// Conflict records a lookahead claimed by more than one alternative. The
// first alternative listed is the one the table selects.
type Conflict struct {
	Decision     Decision
	Lookahead    []TokenKind
	Alternatives []int
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: lookahead %v selects alternative %d over %v",
		c.Decision, c.Lookahead, c.Alternatives[0], c.Alternatives[1:])
}

// DecisionTable maps a decision and up to two tokens of lookahead to an
// alternative. It is immutable once built and safe for concurrent use.
type DecisionTable struct {
	decisions [numDecisions]*decision
	first     map[string]TokenSet
	conflicts []Conflict
}

type decision struct {
	alts     []Alternative
	ll1      map[TokenKind]int
	ll2      map[[2]TokenKind]int
	fallback int
	expected TokenSet
}

var logTable = commonlog.GetLogger("qparse.table")

var defaultTable = sync.OnceValue(func() *DecisionTable {
	g, err := LoadGrammar()
	if err != nil {
		panic(fmt.Sprintf("parser: embedded grammar: %v", err))
	}
	t, err := BuildTable(g)
	if err != nil {
		panic(fmt.Sprintf("parser: embedded grammar: %v", err))
	}
	return t
})

// DefaultTable returns the process-wide table built from the embedded
// grammar. It is built on first use.
func DefaultTable() *DecisionTable {
	return defaultTable()
}

// BuildTable computes FIRST sets for g and derives the prediction entries
// of every decision.
func BuildTable(g ebnf.Grammar) (*DecisionTable, error) {
	fb := &firstBuilder{g: g, sets: make(map[string]laSet)}
	if err := fb.run(); err != nil {
		return nil, err
	}

	t := &DecisionTable{first: make(map[string]TokenSet, len(fb.sets))}
	for name, set := range fb.sets {
		t.first[name] = set.firstTokens()
	}

	for d := Decision(0); d < numDecisions; d++ {
		name := decisionProductions[d]
		prod, ok := g[name]
		if !ok {
			return nil, fmt.Errorf("decision %s: production %q not found", d, name)
		}
		owner, _ := RuleForProduction(name)
		dec := &decision{
			ll1:      make(map[TokenKind]int),
			ll2:      make(map[[2]TokenKind]int),
			fallback: -1,
		}
		sets := make([]laSet, 0)
		for i, expr := range fb.alternatives(prod.Expr) {
			rule := owner
			if n, ok := expr.(*ebnf.Name); ok {
				if r, ok := RuleForProduction(n.String); ok {
					rule = r
				}
			}
			dec.alts = append(dec.alts, Alternative{Index: i, Rule: rule, Expr: expr})
			sets = append(sets, fb.expr(expr))
		}
		if fb.err != nil {
			return nil, fb.err
		}
		t.conflicts = append(t.conflicts, dec.fill(d, sets)...)
		t.decisions[d] = dec
	}

	logTable.Debugf("built decision table: %d productions, %d decisions, %d conflicts",
		len(t.first), numDecisions, len(t.conflicts))
	return t, nil
}

// fill populates the LL(2) and LL(1) entries. Lookaheads an alternative can
// end after claim the LL(1) slot first; two-token lookaheads only fill LL(1)
// slots nobody claimed, so a lone keyword still predicts its call form and
// recovery can report the missing parenthesis.
func (dec *decision) fill(d Decision, sets []laSet) []Conflict {
	var conflicts []Conflict
	claimed := make(map[lookahead][]int)

	for i, set := range sets {
		for _, la := range set.sorted() {
			switch la.n {
			case 0:
				if dec.fallback < 0 {
					dec.fallback = i
				}
			case 1:
				if _, ok := dec.ll1[la.kinds[0]]; !ok {
					dec.ll1[la.kinds[0]] = i
				}
				claimed[la] = appendAlt(claimed[la], i)
			case 2:
				key := [2]TokenKind{la.kinds[0], la.kinds[1]}
				if _, ok := dec.ll2[key]; !ok {
					dec.ll2[key] = i
				}
				claimed[la] = appendAlt(claimed[la], i)
			}
		}
	}
	for i, set := range sets {
		for _, la := range set.sorted() {
			if la.n == 2 {
				if _, ok := dec.ll1[la.kinds[0]]; !ok {
					dec.ll1[la.kinds[0]] = i
				}
			}
		}
	}

	dec.expected = make(TokenSet, len(dec.ll1))
	for k := range dec.ll1 {
		dec.expected.Add(k)
	}

	keys := make([]lookahead, 0, len(claimed))
	for la, alts := range claimed {
		if len(alts) > 1 {
			keys = append(keys, la)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	for _, la := range keys {
		conflicts = append(conflicts, Conflict{
			Decision:     d,
			Lookahead:    la.tokens(),
			Alternatives: claimed[la],
		})
	}
	return conflicts
}

func appendAlt(alts []int, i int) []int {
	for _, a := range alts {
		if a == i {
			return alts
		}
	}
	return append(alts, i)
}

// Predict selects the alternative of d for the upcoming tokens.
func (t *DecisionTable) Predict(d Decision, la Lookahead) (int, bool) {
	dec := t.decisions[d]
	k1 := la.LA(1)
	if alt, ok := dec.ll2[[2]TokenKind{k1, la.LA(2)}]; ok {
		return alt, true
	}
	if alt, ok := dec.ll1[k1]; ok {
		return alt, true
	}
	if dec.fallback >= 0 {
		return dec.fallback, true
	}
	return -1, false
}

// Alternatives returns the alternatives of d in grammar order.
func (t *DecisionTable) Alternatives(d Decision) []Alternative {
	return t.decisions[d].alts
}

// Alternative returns alternative i of d.
func (t *DecisionTable) Alternative(d Decision, i int) Alternative {
	return t.decisions[d].alts[i]
}

// Expected returns the tokens that can start some alternative of d.
func (t *DecisionTable) Expected(d Decision) TokenSet {
	return t.decisions[d].expected
}

// First returns the tokens that can start the production of r.
func (t *DecisionTable) First(r Rule) TokenSet {
	return t.FirstOf(r.String())
}

// FirstOf returns the tokens that can start the named production.
func (t *DecisionTable) FirstOf(production string) TokenSet {
	return t.first[production]
}

// Productions returns the names of all syntactic productions, sorted.
func (t *DecisionTable) Productions() []string {
	names := make([]string, 0, len(t.first))
	for name := range t.first {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *DecisionTable) Conflicts() []Conflict {
	return t.conflicts
}

// lookahead is a token sequence of length n <= 2. A sequence shorter than
// two means the alternative can end there.
type lookahead struct {
	n     int
	kinds [2]TokenKind
}

func (la lookahead) extend(k TokenKind) lookahead {
	la.kinds[la.n] = k
	la.n++
	return la
}

func (la lookahead) tokens() []TokenKind {
	return append([]TokenKind(nil), la.kinds[:la.n]...)
}

func (la lookahead) less(o lookahead) bool {
	for i := 0; i < 2; i++ {
		if i >= la.n || i >= o.n {
			return la.n < o.n
		}
		if la.kinds[i] != o.kinds[i] {
			return la.kinds[i] < o.kinds[i]
		}
	}
	return false
}

type laSet map[lookahead]struct{}

var epsilon = laSet{lookahead{}: {}}

func (s laSet) union(o laSet) laSet {
	out := make(laSet, len(s)+len(o))
	for la := range s {
		out[la] = struct{}{}
	}
	for la := range o {
		out[la] = struct{}{}
	}
	return out
}

// concat returns every sequence of s followed by a sequence of o,
// truncated to two tokens.
func (s laSet) concat(o laSet) laSet {
	out := make(laSet)
	for a := range s {
		if a.n == 2 {
			out[a] = struct{}{}
			continue
		}
		for b := range o {
			c := a
			for i := 0; i < b.n && c.n < 2; i++ {
				c = c.extend(b.kinds[i])
			}
			out[c] = struct{}{}
		}
	}
	return out
}

func (s laSet) sorted() []lookahead {
	out := make([]lookahead, 0, len(s))
	for la := range s {
		out = append(out, la)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

func (s laSet) firstTokens() TokenSet {
	out := make(TokenSet)
	for la := range s {
		if la.n > 0 {
			out.Add(la.kinds[0])
		}
	}
	return out
}

// firstBuilder computes FIRST-2 sets of all syntactic productions by
// fixed-point iteration. Token-class productions are atomic.
type firstBuilder struct {
	g    ebnf.Grammar
	sets map[string]laSet
	err  error
}

func (b *firstBuilder) run() error {
	for changed := true; changed; {
		changed = false
		for name, prod := range b.g {
			if isLexical(name) {
				continue
			}
			set := b.expr(prod.Expr)
			if b.err != nil {
				return b.err
			}
			if len(set) > len(b.sets[name]) {
				b.sets[name] = set
				changed = true
			}
		}
	}
	return nil
}

func (b *firstBuilder) expr(x ebnf.Expression) laSet {
	switch x := x.(type) {
	case nil:
		return epsilon
	case *ebnf.Token:
		kind, ok := lookupTerminal(x.String)
		if !ok {
			b.fail(x.Pos().String(), fmt.Errorf("unknown terminal %q", x.String))
			return laSet{}
		}
		return laSet{lookahead{}.extend(kind): {}}
	case *ebnf.Name:
		if isLexical(x.String) {
			kind, ok := lexicalKinds[x.String]
			if !ok {
				b.fail(x.Pos().String(), fmt.Errorf("token class %q has no token kind", x.String))
				return laSet{}
			}
			return laSet{lookahead{}.extend(kind): {}}
		}
		return b.sets[x.String]
	case ebnf.Sequence:
		set := epsilon
		for _, e := range x {
			set = set.concat(b.expr(e))
		}
		return set
	case ebnf.Alternative:
		set := laSet{}
		for _, e := range x {
			set = set.union(b.expr(e))
		}
		return set
	case *ebnf.Group:
		return b.expr(x.Body)
	case *ebnf.Option:
		return b.expr(x.Body).union(epsilon)
	case *ebnf.Repetition:
		body := b.expr(x.Body)
		set := epsilon
		for {
			next := epsilon.union(body.concat(set))
			if len(next) == len(set) {
				return set
			}
			set = next
		}
	default:
		b.fail(x.Pos().String(), fmt.Errorf("unsupported expression %T in syntactic production", x))
		return laSet{}
	}
}

func (b *firstBuilder) fail(pos string, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("%s: %w", pos, err)
	}
}

// alternatives lists the choices of expr, inlining productions that are
// pure alternations without a rule of their own (BuiltinCall).
func (b *firstBuilder) alternatives(expr ebnf.Expression) []ebnf.Expression {
	alt, ok := expr.(ebnf.Alternative)
	if !ok {
		return []ebnf.Expression{expr}
	}
	var out []ebnf.Expression
	for _, e := range alt {
		if n, ok := e.(*ebnf.Name); ok && !isLexical(n.String) {
			if _, hasRule := RuleForProduction(n.String); !hasRule {
				if prod, ok := b.g[n.String]; ok {
					out = append(out, b.alternatives(prod.Expr)...)
					continue
				}
			}
		}
		out = append(out, e)
	}
	return out
}
