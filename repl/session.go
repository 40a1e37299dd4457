package repl

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dhamidi/qparse/format"
	"github.com/dhamidi/qparse/q/parser"
)

// Entries lists the rules a Session can parse input as.
var Entries = []string{"query", "expression", "declaration"}

// Options configure a Session.
type Options struct {
	Entry         string
	Format        string
	Positions     bool
	Color         format.ColorMode
	ParserOptions []parser.Option
}

// Session is the line-evaluation half of the shell: it parses complete
// input, runs meta-commands and writes results. It does no terminal I/O of
// its own.
type Session struct {
	out        io.Writer
	entry      string
	format     string
	positions  bool
	showTokens bool
	color      format.ColorMode
	parserOpts []parser.Option
}

func NewSession(out io.Writer, opts Options) *Session {
	s := &Session{
		out:        out,
		entry:      opts.Entry,
		format:     opts.Format,
		positions:  opts.Positions,
		color:      opts.Color,
		parserOpts: opts.ParserOptions,
	}
	if s.entry == "" {
		s.entry = "query"
	}
	if s.format == "" {
		s.format = "tree"
	}
	if s.color == "" {
		s.color = format.ColorAuto
	}
	return s
}

// NeedsMoreInput reports whether input leaves parentheses open.
func NeedsMoreInput(input string) bool {
	depth := 0
	for _, tok := range parser.Tokenize([]byte(input), "", 1) {
		switch tok.Kind {
		case parser.TokenLParen:
			depth++
		case parser.TokenRParen:
			depth--
		}
	}
	return depth > 0
}

// Eval handles one complete input. It reports false when the session should
// end.
func (s *Session) Eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return true
	case trimmed == "exit" || trimmed == "quit":
		return false
	case strings.HasPrefix(trimmed, ":"):
		s.command(strings.Fields(trimmed))
		return true
	}

	if s.showTokens {
		for _, tok := range parser.Tokenize([]byte(input), "", 1) {
			fmt.Fprintf(s.out, "%s\t%s\n", tok.Span.Start, tok)
		}
	}

	root, err := s.parse(input)
	enc, encErr := format.NewEncoder(s.format, s.out, s.positions)
	if encErr != nil {
		fmt.Fprintln(s.out, encErr)
		return true
	}
	if encErr := enc.Encode(root); encErr != nil {
		fmt.Fprintln(s.out, encErr)
	}
	if err != nil {
		format.NewDiagnosticEncoder(s.out, []byte(input), s.color).EncodeAll(err)
	}
	return true
}

func (s *Session) parse(input string) (*parser.Node, error) {
	switch s.entry {
	case "expression":
		return parser.ParseExpression(input, s.parserOpts...)
	case "declaration":
		return parser.ParseVariableDeclaration(input, s.parserOpts...)
	default:
		return parser.ParseQuery(input, s.parserOpts...)
	}
}

func (s *Session) command(args []string) {
	switch args[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?      Show this help")
		fmt.Fprintln(s.out, "  :entry [name]      Show or set the entry rule (query, expression, declaration)")
		fmt.Fprintln(s.out, "  :format [name]     Show or set the output format (tree, json, sexp)")
		fmt.Fprintln(s.out, "  :positions         Toggle token positions in tree output")
		fmt.Fprintln(s.out, "  :tokens            Toggle the token listing")
		fmt.Fprintln(s.out, "  :forms [prefix]    List built-in call forms")
		fmt.Fprintln(s.out, "  exit, quit         Exit the REPL")

	case ":entry":
		if len(args) > 1 {
			if !slices.Contains(Entries, args[1]) {
				fmt.Fprintf(s.out, "Unknown entry: %s (must be %s)\n", args[1], strings.Join(Entries, ", "))
				return
			}
			s.entry = args[1]
		}
		fmt.Fprintf(s.out, "entry: %s\n", s.entry)

	case ":format":
		if len(args) > 1 {
			if !slices.Contains(format.Names, args[1]) {
				fmt.Fprintf(s.out, "Unknown format: %s (must be %s)\n", args[1], strings.Join(format.Names, ", "))
				return
			}
			s.format = args[1]
		}
		fmt.Fprintf(s.out, "format: %s\n", s.format)

	case ":positions":
		s.positions = !s.positions
		fmt.Fprintf(s.out, "positions: %v\n", s.positions)

	case ":tokens":
		s.showTokens = !s.showTokens
		fmt.Fprintf(s.out, "tokens: %v\n", s.showTokens)

	case ":forms":
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		for _, b := range parser.Builtins() {
			if strings.HasPrefix(b.Keyword, prefix) {
				fmt.Fprintln(s.out, b.Form())
			}
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", args[0])
	}
}

var metaCommands = []string{":help", ":entry", ":format", ":positions", ":tokens", ":forms"}

// Complete returns completions for the last word of line: meta-commands
// when the line starts with ':', built-in keywords otherwise. Each
// completion is the whole line.
func Complete(line string) []string {
	if strings.TrimSpace(line) == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}

	if strings.HasPrefix(line, ":") {
		return withPrefix(metaCommands, "", line)
	}

	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_')
	}) + 1
	if start == len(line) {
		return nil
	}

	keywords := make([]string, 0, len(parser.Builtins()))
	for _, b := range parser.Builtins() {
		keywords = append(keywords, b.Keyword)
	}
	return withPrefix(keywords, line[:start], line[start:])
}

func withPrefix(candidates []string, head, word string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, head+c)
		}
	}
	return matches
}
