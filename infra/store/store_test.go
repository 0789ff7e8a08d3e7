package store

import (
	"testing"
	"time"

	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/core/ledger"
)

var t0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testRun(t *testing.T, runID string) *export.Run {
	t.Helper()
	h, err := horizon.FromSteps(t0, 30*time.Minute, 3)
	if err != nil {
		t.Fatalf("horizon: %v", err)
	}
	l := ledger.New(h)
	for _, c := range []ledger.Column{{Name: "pv", Kind: "pv"}, {Name: "grid", Kind: "grid"}} {
		if err := l.Register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	for step, v := range []float64{1, 2, 3} {
		l.Set("pv", step, v)
		l.Set("grid", step, 10-v)
	}
	return &export.Run{
		Summary: export.Summary{RunID: runID, Scenario: "test", Mode: "stable-grid", Start: t0, SystemCovered: true},
		Ledger:  l,
	}
}
