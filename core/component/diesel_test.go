package component

import (
	"errors"
	"math"
	"testing"
)

func TestFuelCurve_PassesNearCalibrationPoints(t *testing.T) {
	c, err := NewFuelCurve(DefaultFuelCurve)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, pt := range DefaultFuelCurve {
		got := c.FuelPercent(pt.LoadPercent)
		if math.Abs(got-pt.FuelPercent) > 1.5 {
			t.Errorf("load %v: expected ~%v got %v", pt.LoadPercent, pt.FuelPercent, got)
		}
	}
	if len(c.Coefficients()) != 4 {
		t.Fatalf("expected cubic fit, got %d coefficients", len(c.Coefficients()))
	}
}

func TestFuelCurve_ExactLinear(t *testing.T) {
	c, err := NewFuelCurve([]CurvePoint{{0, 20}, {100, 100}})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := c.FuelPercent(50); math.Abs(got-60) > 1e-9 {
		t.Fatalf("expected 60 got %v", got)
	}
	// rounding to the nearest bucket
	if c.FuelPercent(49.6) != c.FuelPercent(50) {
		t.Fatal("49.6 should round to bucket 50")
	}
	if c.FuelPercent(150) != c.FuelPercent(100) {
		t.Fatal("loading above 100 should use the last bucket")
	}
}

func TestFuelCurve_Invalid(t *testing.T) {
	cases := map[string][]CurvePoint{
		"single":    {{50, 50}},
		"range":     {{0, 0}, {120, 100}},
		"duplicate": {{50, 50}, {50, 60}},
		"negative":  {{0, -1}, {100, 100}},
	}
	for name, pts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewFuelCurve(pts); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig got %v", err)
			}
		})
	}
}

func TestDieselGenerator_NeverExceedsNominal(t *testing.T) {
	d, err := NewDieselGenerator("dg", DieselParams{NominalPowerKW: 30, FuelRateFullLoad: 10, FuelPrice: 1.5}, 0.5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for step, req := range []float64{0, 5, 30, 31, 1e9, -4} {
		got := d.Run(step, req)
		if got > 30 {
			t.Fatalf("request %v delivered %v above nominal", req, got)
		}
		if req <= 0 && got != 0 {
			t.Fatalf("request %v delivered %v", req, got)
		}
	}
}

func TestDieselGenerator_FuelAccounting(t *testing.T) {
	d, err := NewDieselGenerator("dg", DieselParams{
		NominalPowerKW:   100,
		FuelRateFullLoad: 30,
		FuelPrice:        2,
		Curve:            []CurvePoint{{0, 20}, {100, 100}},
	}, 0.25)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := d.Run(3, 50); got != 50 {
		t.Fatalf("expected 50 got %v", got)
	}
	logs := d.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log got %d", len(logs))
	}
	l := logs[0]
	// 60% of 30 L/h over a quarter hour
	if math.Abs(l.FuelRateLPH-18) > 1e-9 || math.Abs(l.FuelLitres-4.5) > 1e-9 || math.Abs(l.FuelCost-9) > 1e-9 {
		t.Fatalf("unexpected log %+v", l)
	}
	if l.LoadPercent != 50 || l.Step != 3 {
		t.Fatalf("unexpected log %+v", l)
	}
	tot := d.Totals()
	if math.Abs(tot.EnergyKWh-12.5) > 1e-9 || tot.RunningHours != 0.25 {
		t.Fatalf("unexpected totals %+v", tot)
	}
	d.Run(4, 0)
	if len(d.Logs()) != 1 {
		t.Fatal("an idle step must not be logged")
	}
	d.Reset()
	if len(d.Logs()) != 0 || d.Totals().FuelLitres != 0 {
		t.Fatal("reset should clear logs")
	}
}

func TestDieselGenerator_InvalidParams(t *testing.T) {
	if _, err := NewDieselGenerator("dg", DieselParams{NominalPowerKW: 0}, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig got %v", err)
	}
	if _, err := NewDieselGenerator("dg", DieselParams{NominalPowerKW: 10, Curve: []CurvePoint{{10, 10}}}, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig got %v", err)
	}
}
