package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/atv/internal/cli"
	"github.com/aretw0/atv/internal/compiler"
	"github.com/aretw0/atv/pkg/adapters/redis"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Inspect and publish the Type Map",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the declared type names",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openValidator(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		for _, name := range v.TypeMap().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var typesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the normalized Type Map as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		v, err := openValidator(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		data, err := compiler.Encode(v.TypeMap(), compiler.Format(format))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var typesPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy the types read from --types into Redis",
	Long: `Reads the Type Map from --types and saves every type into the Redis server
given by --redis-addr. Servers watching that Redis pick the change up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("--redis-addr is required")
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()

		local, err := cli.Open(ctx, cli.Source{Path: cfg.Types})
		if err != nil {
			return fmt.Errorf("failed to load types: %w", err)
		}
		tm := local.TypeMap()

		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		defer store.Client().Close()
		for _, name := range tm.Names() {
			if err := store.SaveType(ctx, tm[name]); err != nil {
				return fmt.Errorf("push %s: %w", name, err)
			}
		}
		rev, err := store.Revision(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d types (revision %d)\n", len(tm), rev)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesListCmd, typesExportCmd, typesPushCmd)
	typesExportCmd.Flags().StringP("format", "f", string(compiler.FormatYAML), "Output format: yaml or json")
}
