package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/ecbn/pkg/curve"
	"github.com/mahdiidarabi/ecbn/pkg/ecdsa"
)

// Config holds settings shared by all commands. Every field can come from
// the YAML file and be overridden by a flag.
type Config struct {
	Curve     string `yaml:"curve"`
	Hash      string `yaml:"hash"`      // empty selects the curve's default
	Workers   int    `yaml:"workers"`   // 0 = one per CPU
	Format    string `yaml:"format"`    // json, csv or empty to go by extension
	Canonical bool   `yaml:"canonical"` // low-S ECDSA signatures
	LogLevel  string `yaml:"log_level"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Curve:     "secp256k1",
		Canonical: true,
		LogLevel:  "info",
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func loadConfiguration(configPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}
	return DefaultConfig(), nil
}

// commonFlags are the flags every command accepts.
type commonFlags struct {
	config    *string
	curve     *string
	hash      *string
	workers   *int
	format    *string
	canonical *bool
	logLevel  *string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:    fs.String("config", "", "Path to YAML config file"),
		curve:     fs.String("curve", "", "Curve name ("+strings.Join(curve.DefaultRegistry.Names(), ", ")+")"),
		hash:      fs.String("hash", "", "Hash for ECDSA ("+strings.Join(ecdsa.HashNames(), ", ")+")"),
		workers:   fs.Int("workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)"),
		format:    fs.String("format", "", "Record file format (json or csv, default by extension)"),
		canonical: fs.Bool("canonical", true, "Produce low-S ECDSA signatures"),
		logLevel:  fs.String("log-level", "", "Log level (debug, info, warn, error)"),
	}
}

func applyFlagOverrides(cfg *Config, f *commonFlags, isFlagSet func(string) bool) {
	if *f.curve != "" {
		cfg.Curve = *f.curve
	}
	if *f.hash != "" {
		cfg.Hash = *f.hash
	}
	if isFlagSet("workers") {
		cfg.Workers = *f.workers
	}
	if *f.format != "" {
		cfg.Format = *f.format
	}
	if isFlagSet("canonical") {
		cfg.Canonical = *f.canonical
	}
	if *f.logLevel != "" {
		cfg.LogLevel = *f.logLevel
	}
}

func validateConfig(cfg *Config) error {
	if _, err := curve.ByName(cfg.Curve); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if cfg.Hash != "" {
		if _, err := ecdsa.HashByName(cfg.Hash); err != nil {
			return fmt.Errorf("hash: %w", err)
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	switch cfg.Format {
	case "", "json", "csv":
	default:
		return fmt.Errorf("format must be json or csv, got %q", cfg.Format)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
