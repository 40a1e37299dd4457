package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var expr string
	var trivia bool

	cmd := &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Print the token stream of q source",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(args, expr, cmd.InOrStdin())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, src := range sources {
				lexer := parser.NewLexer(src.data, src.name)
				for {
					tok := lexer.NextToken()
					if !trivia && (tok.Kind == parser.TokenWhitespace || tok.Kind == parser.TokenComment) {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%q\n", tok.Span.Start, tok.Kind, tok.Literal)
					if tok.Kind == parser.TokenEOF {
						break
					}
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "tokenize this text instead of files")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comment tokens")

	return cmd
}
