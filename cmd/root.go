package cmd

import (
	"github.com/spf13/cobra"

	// Result sinks register themselves with the export registry.
	_ "github.com/kilianp07/microgrid/infra/metrics"
	_ "github.com/kilianp07/microgrid/infra/mqtt"
	_ "github.com/kilianp07/microgrid/infra/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "microgrid",
	Short:        "Micro-grid dispatch simulator",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
