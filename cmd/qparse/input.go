package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/qparse/config"
	"github.com/dhamidi/qparse/format"
	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

// source is one named input: a file, stdin or an -e expression.
type source struct {
	name string
	data []byte
}

// readSources returns the -e expression if set, else the named files, else
// stdin.
func readSources(args []string, expr string, stdin io.Reader) ([]source, error) {
	if expr != "" {
		return []source{{name: "<expr>", data: []byte(expr)}}, nil
	}
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []source{{name: "<stdin>", data: data}}, nil
	}

	sources := make([]source, 0, len(args))
	for _, name := range args {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		sources = append(sources, source{name: name, data: data})
	}
	return sources, nil
}

// parserFlags are the parse settings every parsing command accepts.
type parserFlags struct {
	entry     string
	format    string
	positions bool
	strategy  string
	maxDepth  int
}

func (f *parserFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entry, "entry", "query", "rule to parse input as (query, expression, declaration)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "tree", "output format (tree, json, sexp)")
	cmd.Flags().BoolVar(&f.positions, "positions", false, "include positions in tree output")
	cmd.Flags().StringVar(&f.strategy, "strategy", "default", "error strategy (default, bail)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", parser.DefaultMaxDepth, "maximum expression nesting, 0 for none")
}

// apply copies the flags set on the command line over cfg.
func (f *parserFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("entry") {
		cfg.Entry = f.entry
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = f.format
	}
	if cmd.Flags().Changed("positions") {
		cfg.Positions = f.positions
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	return config.Validate(cfg)
}

// parseEntry parses src as the configured entry rule.
func parseEntry(cfg *config.Config, src string, opts ...parser.Option) (*parser.Node, error) {
	opts = append(cfg.ParserOptions(), opts...)
	switch cfg.Entry {
	case "expression":
		return parser.ParseExpression(src, opts...)
	case "declaration":
		return parser.ParseVariableDeclaration(src, opts...)
	default:
		return parser.ParseQuery(src, opts...)
	}
}

// reportErrors writes a diagnostic for every syntax error in err and
// returns how many there were.
func reportErrors(w io.Writer, src []byte, err error) int {
	if err == nil {
		return 0
	}
	if encErr := format.NewDiagnosticEncoder(w, src, format.ColorMode(cfg.Color)).EncodeAll(err); encErr != nil {
		log.Errorf("write diagnostics: %s", encErr)
	}
	var list parser.ErrorList
	if errors.As(err, &list) {
		return len(list)
	}
	return 1
}
