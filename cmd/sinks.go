package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/microgrid/core/export"
)

var sinksCmd = &cobra.Command{
	Use:   "sinks",
	Short: "List the registered result sink types",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range export.SinkTypes() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(sinksCmd)
}
