package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/infra/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		printSummary, metricsAddr = false, ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSinksCommand(t *testing.T) {
	out, err := execute(t, "sinks")
	if err != nil {
		t.Fatalf("sinks: %v", err)
	}
	for _, name := range []string{"csv", "influx", "jsonl", "mqtt", "nop", "prometheus", "sqlite"} {
		if !strings.Contains(out, name+"\n") {
			t.Errorf("missing sink %s in %q", name, out)
		}
	}
}

const scenario = `scenario: cli
horizon:
  start: "2024-06-01T00:00:00Z"
  step: 1h
  steps: 3
load:
  constant: 5
dispatch:
  mode: stable-grid
logging:
  level: error
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestSimulateCommandPrintsSummary(t *testing.T) {
	t.Cleanup(func() { _, _ = logger.Configure(logger.Options{}) })
	out, err := execute(t, "simulate", "-c", writeScenario(t), "--summary")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var sum export.Summary
	if err := json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &sum); err != nil {
		t.Fatalf("summary json: %v\n%s", err, out)
	}
	if sum.Scenario != "cli" || sum.Steps != 3 || !sum.SystemCovered {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Eco.Total.GridImportKWh != 15 {
		t.Fatalf("grid import = %v", sum.Eco.Total.GridImportKWh)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-c", writeScenario(t))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "cli: 3 steps of 1h0m0s, stable-grid") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSimulateMissingConfig(t *testing.T) {
	if _, err := execute(t, "simulate", "-c", filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}
