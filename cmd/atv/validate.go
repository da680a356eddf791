package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/atv/internal/cli"
	"github.com/aretw0/atv/internal/presentation/report"
	"github.com/aretw0/atv/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate --type NAME [FILE...]",
	Short: "Validate data files against a type",
	Long: `Validates each FILE against the type given by --type and reports every failure.
Files ending in .yaml or .yml are read as YAML, anything else as JSON.
With no FILE, or with "-", the value is read from standard input.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("type", "", "Name of the type to validate against")
	validateCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	_ = validateCmd.MarkFlagRequired("type")
}

func runValidate(cmd *cobra.Command, args []string) error {
	typeName, _ := cmd.Flags().GetString("type")
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Stop()

	v, err := openValidator(ctx, newLogger())
	if err != nil {
		return err
	}
	if _, ok := v.TypeMap()[typeName]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}

	if len(args) == 0 {
		args = []string{cli.Stdin}
	}
	results := make([]report.Result, 0, len(args))
	for _, path := range args {
		subject := path
		if path == cli.Stdin {
			subject = "stdin"
		}
		value, err := cli.ReadData(path, cmd.InOrStdin())
		if err == nil {
			_, err = v.Validate(ctx, value, typeName)
		}
		results = append(results, report.Result{Subject: subject, Err: err})
	}

	if output == "json" {
		if err := report.JSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		r := report.NewRenderer(cmd.OutOrStdout())
		for _, res := range results {
			if err := r.Render(res); err != nil {
				return err
			}
		}
	}

	for _, res := range results {
		if !res.OK() {
			return errFailed
		}
	}
	return nil
}
