// Package eco scores a dispatch run ecologically: CO2 from diesel fuel and
// grid imports, and the share of demand covered without them.
package eco

import (
	"sort"
	"time"

	"github.com/kilianp07/microgrid/core/ledger"
)

// Factors are the emission factors used for scoring.
type Factors struct {
	// DieselKgPerLitre is the CO2 emitted per litre of diesel burnt.
	DieselKgPerLitre float64 `json:"diesel_kg_per_litre"`
	// GridKgPerKWh is the CO2 intensity of imported grid energy.
	GridKgPerKWh float64 `json:"grid_kg_per_kwh"`
}

// DefaultFactors are used for zero-valued fields.
var DefaultFactors = Factors{DieselKgPerLitre: 2.68, GridKgPerKWh: 0.4}

// WithDefaults fills zero fields from DefaultFactors.
func (f Factors) WithDefaults() Factors {
	if f.DieselKgPerLitre == 0 {
		f.DieselKgPerLitre = DefaultFactors.DieselKgPerLitre
	}
	if f.GridKgPerKWh == 0 {
		f.GridKgPerKWh = DefaultFactors.GridKgPerKWh
	}
	return f
}

// Record aggregates the energy flows of one day.
type Record struct {
	Date          time.Time `json:"date"`
	DemandKWh     float64   `json:"demand_kwh"`
	RenewableKWh  float64   `json:"renewable_kwh"`
	DieselKWh     float64   `json:"diesel_kwh"`
	GridImportKWh float64   `json:"grid_import_kwh"`
	GridExportKWh float64   `json:"grid_export_kwh"`
	UnmetKWh      float64   `json:"unmet_kwh"`
}

// RenewableShare is the fraction of demand not covered by diesel or grid
// imports, unmet demand excluded.
func (r Record) RenewableShare() float64 {
	if r.DemandKWh == 0 {
		return 0
	}
	share := 1 - (r.DieselKWh+r.GridImportKWh+r.UnmetKWh)/r.DemandKWh
	if share < 0 {
		return 0
	}
	return share
}

// Report is the ecological score of a run.
type Report struct {
	DieselLitres   float64  `json:"diesel_litres"`
	DieselCO2Kg    float64  `json:"diesel_co2_kg"`
	GridCO2Kg      float64  `json:"grid_co2_kg"`
	TotalCO2Kg     float64  `json:"total_co2_kg"`
	RenewableShare float64  `json:"renewable_share"`
	Total          Record   `json:"total"`
	Days           []Record `json:"days"`
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Score aggregates the ledger per day and prices emissions. demand is the
// gross load per step; dieselLitres is the fuel burnt by all generators.
func Score(l *ledger.Ledger, demand []float64, dieselLitres float64, f Factors) Report {
	f = f.WithDefaults()
	h := l.Horizon()
	hours := h.StepHours()
	days := map[time.Time]*Record{}
	for step := 0; step < l.Len(); step++ {
		d := Day(h.At(step))
		rec := days[d]
		if rec == nil {
			rec = &Record{Date: d}
			days[d] = rec
		}
		if step < len(demand) {
			rec.DemandKWh += demand[step] * hours
		}
		for _, c := range l.Columns() {
			v := l.Get(c.Name, step)
			switch c.Kind {
			case "pv", "wind", "renewable":
				rec.RenewableKWh += v * hours
			case "diesel":
				rec.DieselKWh += v * hours
			case "grid":
				if v > 0 {
					rec.GridImportKWh += v * hours
				} else {
					rec.GridExportKWh -= v * hours
				}
			case "unmet":
				rec.UnmetKWh += v * hours
			}
		}
	}

	rep := Report{DieselLitres: dieselLitres}
	for _, r := range days {
		rep.Days = append(rep.Days, *r)
		rep.Total.DemandKWh += r.DemandKWh
		rep.Total.RenewableKWh += r.RenewableKWh
		rep.Total.DieselKWh += r.DieselKWh
		rep.Total.GridImportKWh += r.GridImportKWh
		rep.Total.GridExportKWh += r.GridExportKWh
		rep.Total.UnmetKWh += r.UnmetKWh
	}
	sort.Slice(rep.Days, func(i, j int) bool { return rep.Days[i].Date.Before(rep.Days[j].Date) })
	if len(rep.Days) > 0 {
		rep.Total.Date = rep.Days[0].Date
	}
	rep.DieselCO2Kg = dieselLitres * f.DieselKgPerLitre
	rep.GridCO2Kg = rep.Total.GridImportKWh * f.GridKgPerKWh
	rep.TotalCO2Kg = rep.DieselCO2Kg + rep.GridCO2Kg
	rep.RenewableShare = rep.Total.RenewableShare()
	return rep
}
