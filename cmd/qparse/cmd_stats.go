package main

import (
	"cmp"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

// treeStats is collected by a listener walk over parsed trees.
type treeStats struct {
	rules    map[parser.Rule]int
	errors   int
	maxDepth int
}

func (s *treeStats) listener(w *parser.Walker) *parser.Listener {
	return parser.NewListener().
		OnEnterEvery(func(n *parser.Node) {
			s.rules[n.Rule]++
			s.maxDepth = max(s.maxDepth, w.Depth())
		}).
		OnEnter(parser.RuleError, func(*parser.Node) {
			s.errors++
		})
}

func newStatsCmd() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Count the rules used by parsed q source",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(args, expr, cmd.InOrStdin())
			if err != nil {
				return err
			}

			stats := &treeStats{rules: make(map[parser.Rule]int)}
			walker := &parser.Walker{}
			l := stats.listener(walker)
			statements := 0
			for _, src := range sources {
				opts := append(cfg.ParserOptions(), parser.WithFile(src.name))
				for _, st := range parser.ParseLines(string(src.data), opts...) {
					walker.Walk(l, st.Root)
					statements++
				}
			}

			rules := make([]parser.Rule, 0, len(stats.rules))
			for r := range stats.rules {
				rules = append(rules, r)
			}
			slices.SortFunc(rules, func(a, b parser.Rule) int {
				if c := cmp.Compare(stats.rules[b], stats.rules[a]); c != 0 {
					return c
				}
				return cmp.Compare(a, b)
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "statements: %d\nerrors: %d\nmax depth: %d\n\n", statements, stats.errors, stats.maxDepth)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range rules {
				fmt.Fprintf(w, "%s\t%d\n", r, stats.rules[r])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "read this text instead of files")

	return cmd
}
