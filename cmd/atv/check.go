package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/atv/internal/cli"
	"github.com/aretw0/atv/internal/presentation/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the Type Map for consistency",
	Long: `Reports unknown field types, malformed validation features and, with --strict,
validator names that nothing registers. Every issue is listed at once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strict := cfg.Strict
		if cmd.Flags().Changed("strict") {
			strict, _ = cmd.Flags().GetBool("strict")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()

		v, err := openValidator(ctx, newLogger())
		if err != nil {
			return err
		}

		res := report.Result{Subject: typeSource().Path, Err: v.Check(strict)}
		if cfg.Redis.Addr != "" {
			res.Subject = "redis://" + cfg.Redis.Addr
		}
		if err := report.NewRenderer(cmd.OutOrStdout()).Render(res); err != nil {
			return err
		}
		if !res.OK() {
			return errFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("strict", false, "Also report unregistered validator names")
}
