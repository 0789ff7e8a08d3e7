package eco

import (
	"math"
	"testing"
	"time"

	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/core/ledger"
)

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	h, err := horizon.FromSteps(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 6*time.Hour, 4)
	if err != nil {
		t.Fatalf("horizon: %v", err)
	}
	l := ledger.New(h)
	for _, c := range []ledger.Column{
		{Name: "pv", Kind: "pv"},
		{Name: "gen", Kind: "diesel"},
		{Name: "grid", Kind: "grid"},
		{Name: "unmet", Kind: "unmet", Role: ledger.RoleTrace},
	} {
		if err := l.Register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	// day 1: steps 0,1; day 2: steps 2,3
	l.Set("pv", 0, 5)
	l.Set("grid", 0, -1)
	l.Set("gen", 1, 2)
	l.Set("grid", 2, 3)
	l.Set("unmet", 3, 1)
	return l
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore_DailyAggregation(t *testing.T) {
	l := testLedger(t)
	rep := Score(l, []float64{4, 2, 3, 1}, 10, Factors{})
	if len(rep.Days) != 2 {
		t.Fatalf("expected 2 days got %d", len(rep.Days))
	}
	d1, d2 := rep.Days[0], rep.Days[1]
	if !d1.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first day %v", d1.Date)
	}
	if !near(d1.RenewableKWh, 30) || !near(d1.GridExportKWh, 6) || !near(d1.DieselKWh, 12) {
		t.Fatalf("unexpected day 1 %+v", d1)
	}
	if !near(d2.GridImportKWh, 18) || !near(d2.UnmetKWh, 6) || !near(d2.DemandKWh, 24) {
		t.Fatalf("unexpected day 2 %+v", d2)
	}
	if !near(rep.Total.DemandKWh, 60) {
		t.Fatalf("total demand %f", rep.Total.DemandKWh)
	}
}

func TestScore_Emissions(t *testing.T) {
	rep := Score(testLedger(t), []float64{4, 2, 3, 1}, 10, Factors{GridKgPerKWh: 0.5})
	if !near(rep.DieselCO2Kg, 26.8) {
		t.Fatalf("diesel co2 %f", rep.DieselCO2Kg)
	}
	if !near(rep.GridCO2Kg, 9) {
		t.Fatalf("grid co2 %f", rep.GridCO2Kg)
	}
	if !near(rep.TotalCO2Kg, 35.8) {
		t.Fatalf("total co2 %f", rep.TotalCO2Kg)
	}
	// 1 - (12 + 18 + 6) / 60
	if !near(rep.RenewableShare, 0.4) {
		t.Fatalf("share %f", rep.RenewableShare)
	}
}

func TestRecord_RenewableShare(t *testing.T) {
	if (Record{}).RenewableShare() != 0 {
		t.Fatalf("empty record")
	}
	if (Record{DemandKWh: 1, DieselKWh: 2}).RenewableShare() != 0 {
		t.Fatalf("share must not be negative")
	}
}
