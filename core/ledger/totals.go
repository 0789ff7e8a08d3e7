package ledger

import (
	"gonum.org/v1/gonum/floats"
)

const hoursPerYear = 8760

// Totals are energy aggregates of a power column.
type Totals struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// EnergyKWh is the signed sum over the horizon.
	EnergyKWh float64 `json:"energy_kwh"`
	// PositiveKWh and NegativeKWh split the signed sum by direction.
	PositiveKWh float64 `json:"positive_kwh"`
	NegativeKWh float64 `json:"negative_kwh"`
	// AnnualKWh scales EnergyKWh to one year of operation.
	AnnualKWh float64 `json:"annual_kwh"`
	// PeakKW is the largest absolute power of the column.
	PeakKW float64 `json:"peak_kw"`
}

// Totals aggregates column name: sum of its values times the step duration.
func (l *Ledger) Totals(name string) Totals {
	i, ok := l.index[name]
	if !ok {
		return Totals{Name: name}
	}
	col := l.values[i]
	h := l.h.StepHours()
	t := Totals{Name: name, Kind: l.columns[i].Kind}
	for _, v := range col {
		if v > 0 {
			t.PositiveKWh += v * h
		} else {
			t.NegativeKWh += v * h
		}
		if a := abs(v); a > t.PeakKW {
			t.PeakKW = a
		}
	}
	t.EnergyKWh = floats.Sum(col) * h
	if hours := l.h.Hours(); hours > 0 {
		t.AnnualKWh = t.EnergyKWh * hoursPerYear / hours
	}
	return t
}

// AllTotals returns Totals for every power column in registration order.
func (l *Ledger) AllTotals() []Totals {
	var out []Totals
	for _, c := range l.columns {
		if c.Role == RolePower {
			out = append(out, l.Totals(c.Name))
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
