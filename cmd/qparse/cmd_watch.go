package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhamidi/qparse/format"
	"github.com/dhamidi/qparse/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var flags parserFlags
	var trees bool

	cmd := &cobra.Command{
		Use:   "watch <path...>",
		Short: "Re-parse q files whenever they change",
		Long: `Re-parse q files whenever they change.

Directories are watched recursively for files with a watched extension.
Every file is parsed once at start; afterwards only changed files are
parsed again. Press Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var enc format.Encoder
			if trees {
				var err error
				if enc, err = format.NewEncoder(cfg.Format, out, cfg.Positions); err != nil {
					return err
				}
			}

			handler := func(res watch.Result) {
				if res.Err != nil {
					fmt.Fprintln(os.Stderr, res.Err)
					return
				}
				failures := 0
				for _, st := range res.Statements {
					if enc != nil {
						if err := enc.Encode(st.Root); err != nil {
							log.Errorf("encode %s: %s", res.Path, err)
						}
					}
					failures += reportErrors(os.Stderr, res.Source, st.Err)
				}
				if failures == 0 {
					fmt.Fprintf(out, "%s: ok (%d statements)\n", res.Path, len(res.Statements))
				} else {
					fmt.Fprintf(out, "%s: %d syntax error(s)\n", res.Path, failures)
				}
			}

			w, err := watch.New(handler,
				watch.WithDebounce(cfg.Watch.Debounce),
				watch.WithExtensions(cfg.Watch.Extensions...),
				watch.WithParserOptions(cfg.ParserOptions()...),
			)
			if err != nil {
				return err
			}
			if err := w.Add(args...); err != nil {
				return err
			}
			log.Infof("watching %d file(s)", len(w.Files()))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&trees, "trees", false, "also print the syntax tree of every statement")

	return cmd
}
