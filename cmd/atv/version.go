package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/atv"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of atv",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "atv version %s\n", strings.TrimSpace(atv.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
