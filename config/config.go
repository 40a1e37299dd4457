// Package config loads qparse settings from YAML.
package config

import (
	"time"

	"github.com/dhamidi/qparse/q/parser"
)

// Config holds settings shared by the qparse commands. Command-line flags
// override it.
type Config struct {
	// Entry is the rule input is parsed as: query, expression or
	// declaration.
	Entry     string      `yaml:"entry"`
	Format    string      `yaml:"format"`
	Positions bool        `yaml:"positions"`
	Strategy  string      `yaml:"strategy"`
	MaxDepth  int         `yaml:"max_depth"`
	Color     string      `yaml:"color"`
	Log       LogConfig   `yaml:"log"`
	REPL      REPLConfig  `yaml:"repl"`
	Watch     WatchConfig `yaml:"watch"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

type REPLConfig struct {
	History string `yaml:"history"`
	Prompt  string `yaml:"prompt"`
}

type WatchConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	Extensions []string      `yaml:"extensions"`
}

func Defaults() *Config {
	return &Config{
		Entry:    "query",
		Format:   "tree",
		Strategy: "default",
		MaxDepth: parser.DefaultMaxDepth,
		Color:    "auto",
		REPL: REPLConfig{
			Prompt: "q) ",
		},
		Watch: WatchConfig{
			Debounce:   100 * time.Millisecond,
			Extensions: []string{".q"},
		},
	}
}

// ParserOptions translates the parser settings into parser options.
func (c *Config) ParserOptions() []parser.Option {
	opts := []parser.Option{parser.WithMaxDepth(c.MaxDepth)}
	if c.Strategy == "bail" {
		opts = append(opts, parser.WithErrorStrategy(parser.BailStrategy{}))
	}
	return opts
}
