package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/microgrid/app"
	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/infra/metrics"
)

var (
	metricsAddr  string
	printSummary bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured scenario over its horizon",
	RunE:  simulate,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the configuration and build the scenario without running it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		sim, err := app.Build(cfg, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d steps of %s, %s\n",
			cfg.Scenario, sim.Horizon.Len(), sim.Horizon.Step(), sim.Engine.Mode())
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&metricsAddr, "serve-metrics", "", "keep serving Prometheus metrics on this address after the run")
	simulateCmd.Flags().BoolVar(&printSummary, "summary", false, "print the run summary as JSON")
	rootCmd.AddCommand(simulateCmd, validateCmd)
}

func simulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	run, err := app.Simulate(ctx, cfg)
	if err != nil {
		return err
	}
	if printSummary {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(run.Summary); err != nil {
			return err
		}
	}
	if metricsAddr != "" {
		return metrics.ServePrometheus(ctx, metricsAddr, nil)
	}
	return nil
}
