package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

func newBuiltinsCmd() *cobra.Command {
	var arity int

	cmd := &cobra.Command{
		Use:   "builtins [prefix]",
		Short: "List the built-in call forms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, b := range parser.Builtins() {
				if !strings.HasPrefix(b.Keyword, prefix) {
					continue
				}
				if arity != 0 && int(b.Arity) != arity {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Keyword, b.Form(), b.Production())
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&arity, "arity", 0, "only list forms taking this many arguments (1 or 2)")

	return cmd
}
