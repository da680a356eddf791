package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/internal/cli"
	"github.com/aretw0/atv/internal/config"
	"github.com/aretw0/atv/internal/logging"
)

// errFailed is returned by commands that already reported their failures.
var errFailed = errors.New("validation failed")

// cfg holds the environment configuration with flag overrides applied.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "atv",
	Short: "atv validates data against declared types",
	Long: `atv checks values against a Type Map: field features, custom value,
item and list validators, with every failure reported at once.

Types are read from a YAML/JSON file, a directory of type documents, or Redis.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("types", "t", ".", "Type Map file or directory")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("redis-addr", "", "Read types from this Redis server instead of --types")
	flags.String("redis-prefix", "atv:", "Key prefix for Redis types and uniqueness sets")
	flags.Int("concurrency", 0, "Sibling fields validated in parallel (0 = sequential)")
	flags.Bool("primitive-checks", false, "Check values of String, Number, Integer and Boolean fields against their type")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("types") {
		c.Types, _ = flags.GetString("types")
	}
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("redis-addr") {
		c.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("redis-prefix") {
		c.Redis.Prefix, _ = flags.GetString("redis-prefix")
	}
	if flags.Changed("concurrency") {
		c.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("primitive-checks") {
		c.PrimitiveChecks, _ = flags.GetBool("primitive-checks")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	return nil
}

func newLogger() *slog.Logger {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

func typeSource() cli.Source {
	return cli.Source{
		Path:          cfg.Types,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
	}
}

func openValidator(ctx context.Context, logger *slog.Logger, extra ...atv.Option) (*atv.Validator, error) {
	opts := []atv.Option{
		atv.WithLogger(logger),
		atv.WithConcurrency(cfg.Concurrency),
	}
	if cfg.PrimitiveChecks {
		opts = append(opts, atv.WithPrimitiveChecks())
	}
	v, err := cli.Open(ctx, typeSource(), append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load types: %w", err)
	}
	logger.Debug("Types loaded", "source", typeSource().Kind(), "types", len(v.TypeMap()))
	return v, nil
}
