package main

import (
	"github.com/dhamidi/qparse/format"
	"github.com/dhamidi/qparse/repl"
	"github.com/spf13/cobra"
)

func newREPLCmd() *cobra.Command {
	var flags parserFlags
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive parsing shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("history") {
				cfg.REPL.History = history
			}
			return repl.Start(cmd.OutOrStdout(), cfg.REPL.Prompt, cfg.REPL.History, repl.Options{
				Entry:         cfg.Entry,
				Format:        cfg.Format,
				Positions:     cfg.Positions,
				Color:         format.ColorMode(cfg.Color),
				ParserOptions: cfg.ParserOptions(),
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&history, "history", "", "history file (empty disables history)")

	return cmd
}
