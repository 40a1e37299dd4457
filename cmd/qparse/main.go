package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/qparse/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("qparse.cmd")

// cfg is loaded before any command runs; command flags override it.
var cfg = config.Defaults()

func main() {
	var configPath string
	var verbosity int
	var color string

	rootCmd := &cobra.Command{
		Use:           "qparse",
		Short:         "Parse and inspect q queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath, os.Getenv)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("color") {
				loaded.Color = color
			}
			if cmd.Flags().Changed("verbose") {
				loaded.Log.Verbosity = verbosity
			}
			if err := config.Validate(loaded); err != nil {
				return err
			}
			cfg = loaded

			var logPath *string
			if cfg.Log.File != "" {
				logPath = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, logPath)
			if cfg.Path != "" {
				log.Debugf("loaded config %s", cfg.Path)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .qparse.yaml, then $XDG_CONFIG_HOME/qparse/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto", "color diagnostics (auto, always, never)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newBuiltinsCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newREPLCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
