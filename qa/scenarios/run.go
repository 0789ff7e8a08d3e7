package scenarios

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/microgrid/app"
	"github.com/kilianp07/microgrid/core/dispatch"
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/infra/logger"
	"github.com/kilianp07/microgrid/infra/metrics"
	"github.com/kilianp07/microgrid/internal/series"
)

const tolerance = 1e-6

func RunScenario(t *testing.T, sc *Scenario) *export.Run {
	t.Helper()
	cfg, err := sc.BuildConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	sim, err := app.Build(cfg, logger.NopLogger{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sink, err := metrics.NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	run, err := sim.Run(context.Background(), sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	exp := sc.Expected
	if exp.Covered != nil && run.Summary.SystemCovered != *exp.Covered {
		t.Errorf("scenario %s expected covered=%t", sc.Name, *exp.Covered)
	}
	if exp.UnmetSteps != nil && run.Summary.UnmetSteps != *exp.UnmetSteps {
		t.Errorf("scenario %s expected %d unmet steps, got %d", sc.Name, *exp.UnmetSteps, run.Summary.UnmetSteps)
	}
	if exp.UnmetKWh != nil && math.Abs(run.Summary.UnmetKWh-*exp.UnmetKWh) > tolerance {
		t.Errorf("scenario %s expected %.3f kWh unmet, got %.3f", sc.Name, *exp.UnmetKWh, run.Summary.UnmetKWh)
	}
	for name, want := range exp.Columns {
		if !run.Ledger.Has(name) {
			t.Errorf("scenario %s: no column %s", sc.Name, name)
			continue
		}
		got := run.Ledger.Column(name)
		if len(got) != len(want) {
			t.Errorf("scenario %s: column %s has %d steps, want %d", sc.Name, name, len(got), len(want))
			continue
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > tolerance {
				t.Errorf("scenario %s: %s[%d] = %v, want %v", sc.Name, name, i, got[i], want[i])
			}
		}
	}
	load, err := series.Load(cfg.Load, sim.Horizon)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for step, demand := range load {
		served := math.Max(demand, 0) - run.Ledger.Get(dispatch.UnmetColumn, step)
		if diff := math.Abs(run.Ledger.StepSum(step) - served); diff > tolerance {
			t.Errorf("scenario %s: step %d breaks conservation by %v", sc.Name, step, diff)
		}
	}
	return run
}
