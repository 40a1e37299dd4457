package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the per-directory configuration file.
const FileName = ".qparse.yaml"

// Load reads configuration with ENV interpolation. If configPath is empty
// the default locations are searched; finding none yields Defaults().
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = absPath

	baseDir := filepath.Dir(absPath)
	cfg.Log.File = resolvePath(baseDir, cfg.Log.File, getenv)
	cfg.REPL.History = resolvePath(baseDir, cfg.REPL.History, getenv)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > QPARSE_CONFIG env > ./.qparse.yaml >
// $XDG_CONFIG_HOME/qparse/config.yaml > ~/.config/qparse/config.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("QPARSE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("QPARSE_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}

	var candidates []string
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "qparse", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "qparse", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

// resolvePath expands a leading ~ and makes relative paths relative to the
// configuration file.
func resolvePath(baseDir, path string, getenv func(string) string) string {
	switch {
	case path == "":
		return ""
	case path == "~" || strings.HasPrefix(path, "~/"):
		home := getenv("HOME")
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	case filepath.IsAbs(path):
		return path
	}
	return filepath.Join(baseDir, path)
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

var (
	validEntries    = []string{"query", "expression", "declaration"}
	validFormats    = []string{"tree", "json", "sexp"}
	validStrategies = []string{"default", "bail"}
	validColors     = []string{"auto", "always", "never"}
)

// Validate checks settings for errors. Call it again after applying
// command-line overrides.
func Validate(cfg *Config) error {
	var errs []string

	if !slices.Contains(validEntries, cfg.Entry) {
		errs = append(errs, fmt.Sprintf("invalid entry: %q (must be %s)", cfg.Entry, strings.Join(validEntries, ", ")))
	}
	if !slices.Contains(validFormats, cfg.Format) {
		errs = append(errs, fmt.Sprintf("invalid format: %q (must be %s)", cfg.Format, strings.Join(validFormats, ", ")))
	}
	if !slices.Contains(validStrategies, cfg.Strategy) {
		errs = append(errs, fmt.Sprintf("invalid strategy: %q (must be %s)", cfg.Strategy, strings.Join(validStrategies, ", ")))
	}
	if !slices.Contains(validColors, cfg.Color) {
		errs = append(errs, fmt.Sprintf("invalid color: %q (must be %s)", cfg.Color, strings.Join(validColors, ", ")))
	}
	if cfg.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("invalid max_depth: %d (must be 0 or more)", cfg.MaxDepth))
	}
	if cfg.Log.Verbosity < 0 {
		errs = append(errs, fmt.Sprintf("invalid log.verbosity: %d (must be 0 or more)", cfg.Log.Verbosity))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s", cfg.Watch.Debounce))
	}
	for i, ext := range cfg.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("watch.extensions[%d]: %q must start with a dot", i, ext))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
