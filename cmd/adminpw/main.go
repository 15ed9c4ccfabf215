package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sashakarcz/adminpw/internal/config"
	"github.com/sashakarcz/adminpw/internal/generator"
	"github.com/sashakarcz/adminpw/internal/logger"
	"github.com/sashakarcz/adminpw/internal/metrics"
	"github.com/sashakarcz/adminpw/internal/passhash"
)

const version = "adminpw v1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on completion (a failed verification
// included), 1 on a configuration, hashing or output failure, 2 on bad usage.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("adminpw", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config", "", "Path to optional configuration file")
	verifyHash := flags.String("verify", "", "Existing bcrypt hash to check against the password")
	showVersion := flags.Bool("version", false, "Print version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	// Built-in defaults unless a file is given
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
			return 1
		}
	}
	if *verifyHash != "" {
		cfg.Password.ExistingHash = *verifyHash
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Invalid -verify hash: %v\n", err)
			return 1
		}
	}

	if err := logger.Setup(logger.Config{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
		Output: stderr,
	}); err != nil {
		fmt.Fprintf(stderr, "Failed to setup logger: %v\n", err)
		return 1
	}

	hasher, err := passhash.New(cfg.Password.Cost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create hasher")
		return 1
	}

	m := metrics.New()
	gen := generator.New(hasher, generator.Options{
		Table:        cfg.Target.Table,
		Column:       cfg.Target.Column,
		KeyColumn:    cfg.Target.KeyColumn,
		KeyValue:     cfg.Target.KeyValue,
		ExistingHash: cfg.Password.ExistingHash,
	}, m)

	logger.Debug().
		Int("cost", hasher.Cost()).
		Str("user", cfg.Target.KeyValue).
		Msg("Generating admin password hash")

	res, err := gen.Run(context.Background(), []byte(cfg.Password.Value))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate password hash")
		return 1
	}

	if err := res.Print(stdout); err != nil {
		logger.Error().Err(err).Msg("Failed to write output")
		return 1
	}

	logger.Info().
		Str("run_id", res.RunID).
		Dur("hash_duration", res.Duration).
		Bool("verified", res.Verified).
		Msg("Done")

	if cfg.Observability.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Observability.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Observability.MetricsFile).Msg("Failed to write metrics")
		}
	}

	return 0
}
