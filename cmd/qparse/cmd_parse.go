package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/qparse/format"
	"github.com/dhamidi/qparse/q/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var flags parserFlags
	var expr string
	var whole bool

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse q source and print the syntax tree",
		Long: `Parse q source and print the syntax tree.

Input is read from the named files, from -e, or from stdin. Each line is
parsed as a separate query unless --whole is given or the entry rule is
expression or declaration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			sources, err := readSources(args, expr, cmd.InOrStdin())
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(cfg.Format, cmd.OutOrStdout(), cfg.Positions)
			if err != nil {
				return err
			}

			failures := 0
			for _, src := range sources {
				n, err := parseSource(enc, src, whole || cfg.Entry != "query")
				if err != nil {
					return err
				}
				failures += n
			}
			if failures > 0 {
				return fmt.Errorf("%d syntax error(s)", failures)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "parse this text instead of files")
	cmd.Flags().BoolVar(&whole, "whole", false, "parse each input as a single unit instead of line by line")

	return cmd
}

// parseSource encodes the trees of src and returns the number of syntax
// errors found.
func parseSource(enc format.Encoder, src source, whole bool) (int, error) {
	log.Debugf("parsing %s", src.name)

	if whole {
		root, err := parseEntry(cfg, string(src.data), parser.WithFile(src.name))
		if encErr := enc.Encode(root); encErr != nil {
			return 0, fmt.Errorf("encode: %w", encErr)
		}
		return reportErrors(os.Stderr, src.data, err), nil
	}

	opts := append(cfg.ParserOptions(), parser.WithFile(src.name))
	failures := 0
	for _, st := range parser.ParseLines(string(src.data), opts...) {
		if err := enc.Encode(st.Root); err != nil {
			return 0, fmt.Errorf("encode: %w", err)
		}
		failures += reportErrors(os.Stderr, src.data, st.Err)
	}
	return failures, nil
}
