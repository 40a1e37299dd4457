package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	var check bool
	var first bool
	var expr string

	cmd := &cobra.Command{
		Use:   "grammar [file]",
		Short: "Print or check the q grammar",
		Long: `Print or check the q grammar.

Without flags the embedded grammar is printed as EBNF. --check parses and
verifies the grammar (or the given file), builds the prediction table and
reports lookahead conflicts. --first prints the FIRST set of every
production. -e checks whether the grammar generates the given text, using a
chart recognizer instead of the predictive parser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !check && !first && expr == "" {
				_, err := io.WriteString(out, parser.GrammarSource())
				return err
			}

			filename, src := "grammar.ebnf", parser.GrammarSource()
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read grammar: %w", err)
				}
				filename, src = args[0], string(data)
			}

			g, err := parser.ParseGrammar(filename, src)
			if err != nil {
				printErrors(out, err)
				return errors.New("grammar is invalid")
			}
			if expr != "" {
				r, err := parser.NewRecognizer(g)
				if err != nil {
					return err
				}
				tokens := parser.Tokenize([]byte(expr), "<expr>", 1)
				if err := r.Recognize(parser.StartProduction, tokens); err != nil {
					return err
				}
				fmt.Fprintf(out, "accepted as %s\n", parser.StartProduction)
				return nil
			}

			table, err := parser.BuildTable(g)
			if err != nil {
				printErrors(out, err)
				return errors.New("grammar is invalid")
			}

			if first {
				for _, name := range table.Productions() {
					fmt.Fprintf(out, "%s: %s\n", name, formatKinds(table.FirstOf(name)))
				}
			}
			if check {
				conflicts := table.Conflicts()
				for _, c := range conflicts {
					fmt.Fprintln(out, c)
				}
				if len(conflicts) > 0 {
					return fmt.Errorf("%d lookahead conflict(s)", len(conflicts))
				}
				fmt.Fprintf(out, "%s: ok (%d productions)\n", filename, len(table.Productions()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the grammar and report prediction conflicts")
	cmd.Flags().BoolVar(&first, "first", false, "print the FIRST set of every production")
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "report whether the grammar generates this text")

	return cmd
}

// printErrors prints one line per error when the cause of err is a list of
// errors, as ebnf.Parse and ebnf.Verify return.
func printErrors(w io.Writer, err error) {
	cause := err
	for {
		next := errors.Unwrap(cause)
		if next == nil {
			break
		}
		cause = next
	}
	v := reflect.ValueOf(cause)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}

func formatKinds(set parser.TokenSet) string {
	kinds := set.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " ")
}
