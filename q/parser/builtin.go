package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Arity int

const (
	Unary  Arity = 1
	Binary Arity = 2
)

// Builtin describes one built-in call form: KEYWORD ( expr ) for unary
// entries and KEYWORD ( expr ; expr ) for binary ones.
type Builtin struct {
	Keyword string
	Arity   Arity
	Token   TokenKind
	Rule    Rule
}

// Production returns the grammar production name of the call form.
func (b Builtin) Production() string {
	r, size := utf8.DecodeRuneInString(b.Keyword)
	return string(unicode.ToUpper(r)) + b.Keyword[size:]
}

// Form renders the call form with placeholder operands.
func (b Builtin) Form() string {
	if b.Arity == Binary {
		return b.Keyword + "(x;y)"
	}
	return b.Keyword + "(x)"
}

var builtins = numberBuiltins([]Builtin{
	{Keyword: "abs", Arity: Unary},
	{Keyword: "acos", Arity: Unary},
	{Keyword: "aj", Arity: Binary},
	{Keyword: "aj0", Arity: Binary},
	{Keyword: "all", Arity: Unary},
	{Keyword: "and", Arity: Binary},
	{Keyword: "any", Arity: Unary},
	{Keyword: "asc", Arity: Unary},
	{Keyword: "asin", Arity: Unary},
	{Keyword: "asof", Arity: Binary},
	{Keyword: "atan", Arity: Unary},
	{Keyword: "attr", Arity: Unary},
	{Keyword: "avg", Arity: Unary},
	{Keyword: "avgs", Arity: Unary},
	{Keyword: "bin", Arity: Binary},
	{Keyword: "binr", Arity: Binary},
	{Keyword: "ceiling", Arity: Unary},
	{Keyword: "cols", Arity: Unary},
	{Keyword: "cor", Arity: Binary},
	{Keyword: "cos", Arity: Unary},
	{Keyword: "count", Arity: Unary},
	{Keyword: "cov", Arity: Binary},
	{Keyword: "cross", Arity: Binary},
	{Keyword: "cut", Arity: Binary},
	{Keyword: "delete", Arity: Binary},
	{Keyword: "deltas", Arity: Unary},
	{Keyword: "desc", Arity: Unary},
	{Keyword: "dev", Arity: Unary},
	{Keyword: "differ", Arity: Unary},
	{Keyword: "distinct", Arity: Unary},
	{Keyword: "div", Arity: Binary},
	{Keyword: "do", Arity: Binary},
	{Keyword: "dsave", Arity: Binary},
	{Keyword: "each", Arity: Binary},
	{Keyword: "ej", Arity: Binary},
	{Keyword: "ema", Arity: Binary},
	{Keyword: "enlist", Arity: Unary},
	{Keyword: "eval", Arity: Unary},
	{Keyword: "except", Arity: Binary},
	{Keyword: "exec", Arity: Binary},
	{Keyword: "exit", Arity: Unary},
	{Keyword: "exp", Arity: Unary},
	{Keyword: "fby", Arity: Binary},
	{Keyword: "fills", Arity: Unary},
	{Keyword: "first", Arity: Unary},
	{Keyword: "fkeys", Arity: Unary},
	{Keyword: "flip", Arity: Unary},
	{Keyword: "floor", Arity: Unary},
	{Keyword: "get", Arity: Unary},
	{Keyword: "getenv", Arity: Unary},
	{Keyword: "group", Arity: Unary},
	{Keyword: "gtime", Arity: Unary},
	{Keyword: "hclose", Arity: Unary},
	{Keyword: "hcount", Arity: Unary},
	{Keyword: "hdel", Arity: Unary},
	{Keyword: "hopen", Arity: Unary},
	{Keyword: "hsym", Arity: Unary},
	{Keyword: "iasc", Arity: Unary},
	{Keyword: "idesc", Arity: Unary},
	{Keyword: "if", Arity: Binary},
	{Keyword: "ij", Arity: Binary},
	{Keyword: "ijf", Arity: Binary},
	{Keyword: "in", Arity: Binary},
	{Keyword: "insert", Arity: Binary},
	{Keyword: "inter", Arity: Binary},
	{Keyword: "inv", Arity: Unary},
	{Keyword: "key", Arity: Unary},
	{Keyword: "keys", Arity: Unary},
	{Keyword: "last", Arity: Unary},
	{Keyword: "like", Arity: Binary},
	{Keyword: "lj", Arity: Binary},
	{Keyword: "ljf", Arity: Binary},
	{Keyword: "load", Arity: Unary},
	{Keyword: "log", Arity: Unary},
	{Keyword: "lower", Arity: Unary},
	{Keyword: "lsq", Arity: Binary},
	{Keyword: "ltime", Arity: Unary},
	{Keyword: "ltrim", Arity: Unary},
	{Keyword: "mavg", Arity: Binary},
	{Keyword: "max", Arity: Unary},
	{Keyword: "maxs", Arity: Unary},
	{Keyword: "mcount", Arity: Binary},
	{Keyword: "md5", Arity: Unary},
	{Keyword: "mdev", Arity: Binary},
	{Keyword: "med", Arity: Unary},
	{Keyword: "meta", Arity: Unary},
	{Keyword: "min", Arity: Unary},
	{Keyword: "mins", Arity: Unary},
	{Keyword: "mmax", Arity: Binary},
	{Keyword: "mmin", Arity: Binary},
	{Keyword: "mmu", Arity: Binary},
	{Keyword: "mod", Arity: Binary},
	{Keyword: "msum", Arity: Binary},
	{Keyword: "neg", Arity: Unary},
	{Keyword: "next", Arity: Unary},
	{Keyword: "not", Arity: Unary},
	{Keyword: "null", Arity: Unary},
	{Keyword: "or", Arity: Binary},
	{Keyword: "over", Arity: Binary},
	{Keyword: "parse", Arity: Unary},
	{Keyword: "peach", Arity: Binary},
	{Keyword: "pj", Arity: Binary},
	{Keyword: "prd", Arity: Unary},
	{Keyword: "prds", Arity: Unary},
	{Keyword: "prev", Arity: Unary},
	{Keyword: "prior", Arity: Binary},
	{Keyword: "rand", Arity: Unary},
	{Keyword: "rank", Arity: Unary},
	{Keyword: "ratios", Arity: Unary},
	{Keyword: "raze", Arity: Unary},
	{Keyword: "read0", Arity: Unary},
	{Keyword: "read1", Arity: Unary},
	{Keyword: "reciprocal", Arity: Unary},
	{Keyword: "reval", Arity: Unary},
	{Keyword: "reverse", Arity: Unary},
	{Keyword: "rload", Arity: Unary},
	{Keyword: "rotate", Arity: Binary},
	{Keyword: "rsave", Arity: Unary},
	{Keyword: "rtrim", Arity: Unary},
	{Keyword: "save", Arity: Unary},
	{Keyword: "scan", Arity: Binary},
	{Keyword: "scov", Arity: Binary},
	{Keyword: "sdev", Arity: Unary},
	{Keyword: "select", Arity: Binary},
	{Keyword: "set", Arity: Binary},
	{Keyword: "setenv", Arity: Binary},
	{Keyword: "show", Arity: Unary},
	{Keyword: "signum", Arity: Unary},
	{Keyword: "sin", Arity: Unary},
	{Keyword: "sqrt", Arity: Unary},
	{Keyword: "ss", Arity: Binary},
	{Keyword: "string", Arity: Unary},
	{Keyword: "sublist", Arity: Binary},
	{Keyword: "sum", Arity: Unary},
	{Keyword: "sums", Arity: Unary},
	{Keyword: "sv", Arity: Binary},
	{Keyword: "svar", Arity: Unary},
	{Keyword: "system", Arity: Unary},
	{Keyword: "tables", Arity: Unary},
	{Keyword: "tan", Arity: Unary},
	{Keyword: "til", Arity: Unary},
	{Keyword: "trim", Arity: Unary},
	{Keyword: "type", Arity: Unary},
	{Keyword: "uj", Arity: Binary},
	{Keyword: "ujf", Arity: Binary},
	{Keyword: "ungroup", Arity: Unary},
	{Keyword: "union", Arity: Binary},
	{Keyword: "update", Arity: Binary},
	{Keyword: "upper", Arity: Unary},
	{Keyword: "upsert", Arity: Binary},
	{Keyword: "value", Arity: Unary},
	{Keyword: "var", Arity: Unary},
	{Keyword: "view", Arity: Unary},
	{Keyword: "views", Arity: Unary},
	{Keyword: "vs", Arity: Binary},
	{Keyword: "wavg", Arity: Binary},
	{Keyword: "where", Arity: Unary},
	{Keyword: "while", Arity: Binary},
	{Keyword: "within", Arity: Binary},
	{Keyword: "wsum", Arity: Binary},
	{Keyword: "xasc", Arity: Binary},
	{Keyword: "xbar", Arity: Binary},
	{Keyword: "xcol", Arity: Binary},
	{Keyword: "xcols", Arity: Binary},
	{Keyword: "xdesc", Arity: Binary},
	{Keyword: "xexp", Arity: Binary},
	{Keyword: "xgroup", Arity: Binary},
	{Keyword: "xkey", Arity: Binary},
	{Keyword: "xlog", Arity: Binary},
	{Keyword: "xprev", Arity: Binary},
	{Keyword: "xrank", Arity: Binary},
})

// numberBuiltins assigns each entry its token kind and rule from its
// position in the catalogue.
func numberBuiltins(table []Builtin) []Builtin {
	for i := range table {
		table[i].Token = firstKeywordToken + TokenKind(i)
		table[i].Rule = firstBuiltinRule + Rule(i)
	}
	return table
}

var keywords = indexKeywords(builtins)

func indexKeywords(table []Builtin) map[string]Builtin {
	m := make(map[string]Builtin, len(table))
	for _, b := range table {
		m[b.Keyword] = b
	}
	return m
}

// Keyword kinds that double as the logical operators of the expression chain.
var (
	TokenAnd = keywords["and"].Token
	TokenOr  = keywords["or"].Token
	TokenNot = keywords["not"].Token
)

// Builtins returns the catalogue in token order. The slice is a copy.
func Builtins() []Builtin {
	return append([]Builtin(nil), builtins...)
}

// LookupBuiltin returns the catalogue entry for keyword.
func LookupBuiltin(keyword string) (Builtin, bool) {
	b, ok := keywords[strings.TrimSpace(keyword)]
	return b, ok
}

func BuiltinForToken(k TokenKind) (Builtin, bool) {
	i := int(k - firstKeywordToken)
	if i < 0 || i >= len(builtins) {
		return Builtin{}, false
	}
	return builtins[i], true
}

func BuiltinForRule(r Rule) (Builtin, bool) {
	i := int(r - firstBuiltinRule)
	if i < 0 || i >= len(builtins) {
		return Builtin{}, false
	}
	return builtins[i], true
}
