// Command ecctool signs, verifies and recovers keys on the registry curves,
// checks record files in bulk and runs the cross-implementation self test.
//
// Usage:
//
//	ecctool <command> [flags]
//
// Every command accepts -config, -curve, -hash, -workers, -format,
// -canonical and -log-level. Flags override values from the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
)

var (
	errInvalidSignature = errors.New("signature is invalid")
	errInvalidRecords   = errors.New("some records failed verification")
)

type command struct {
	summary string
	run     func(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"keygen":   {"generate a key pair", runKeygen},
	"sign":     {"sign a message or digest", runSign},
	"verify":   {"verify a signature", runVerify},
	"recover":  {"recover an ECDSA public key from a signature", runRecover},
	"batch":    {"verify a JSON or CSV file of records", runBatch},
	"audit":    {"search records for related nonces", runAudit},
	"x25519":   {"compute the X25519 function", runX25519},
	"selftest": {"compare against reference implementations", runSelftest},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
	if err := cmd.run(ctx, args[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ecctool <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs, registerCommonFlags(fs)
}

// parseCommand parses args, layers flags over the config file and builds
// the logger.
func parseCommand(fs *flag.FlagSet, f *commonFlags, args []string, stderr io.Writer) (*Config, *slog.Logger, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfiguration(*f.config)
	if err != nil {
		return nil, nil, err
	}
	applyFlagOverrides(cfg, f, func(name string) bool { return isFlagSet(fs, name) })
	if err := validateConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(stderr, cfg)
	logger.Debug("configuration loaded",
		"curve", cfg.Curve,
		"hash", cfg.Hash,
		"workers", cfg.Workers,
		"format", cfg.Format,
		"canonical", cfg.Canonical)
	return cfg, logger, nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
