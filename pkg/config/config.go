package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable naming the config file.
const EnvVar = "TREELOX_CONFIG"

// Name of the config file looked up in the home directory.
const DefaultFile = ".treelox.yml"

type Config struct {
	Repl  Repl  `yaml:"repl"`
	Debug Debug `yaml:"debug"`
	Log   Log   `yaml:"log"`
}

type Repl struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Banner      bool   `yaml:"banner"`
}

type Debug struct {
	// Dump the scanned tokens before parsing.
	Tokens bool `yaml:"tokens"`
	// Dump the parsed tree before execution.
	AST bool `yaml:"ast"`
}

type Log struct {
	// One of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() Config {
	return Config{
		Repl: Repl{
			Prompt:      "> ",
			HistoryFile: "~/.treelox_history",
			Banner:      true,
		},
		Log: Log{Level: "warn"},
	}
}

// Returns the config file to use: $TREELOX_CONFIG if set, else
// ~/.treelox.yml if it exists, else "".
func Locate() string {
	if path := os.Getenv(EnvVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, DefaultFile)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Loads the config at path over the defaults. An empty path gives the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.finish()
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return decode(file, path)
}

func decode(r io.Reader, path string) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.finish()
}

// Validates the config and expands the history path in place.
func (cfg *Config) finish() error {
	var issues []string
	if _, ok := levels[strings.ToLower(cfg.Log.Level)]; !ok {
		issues = append(issues, fmt.Sprintf("log.level: unknown level %q", cfg.Log.Level))
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	cfg.Repl.HistoryFile = expandHome(cfg.Repl.HistoryFile)
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func (cfg Config) SlogLevel() slog.Level {
	if lvl, ok := levels[strings.ToLower(cfg.Log.Level)]; ok {
		return lvl
	}
	return slog.LevelWarn
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
