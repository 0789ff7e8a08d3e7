package export

import (
	"time"

	"github.com/kilianp07/microgrid/core/eco"
	"github.com/kilianp07/microgrid/core/ledger"
)

// DieselSummary holds the fuel accounting of one generator.
type DieselSummary struct {
	Name         string  `json:"name"`
	EnergyKWh    float64 `json:"energy_kwh"`
	FuelLitres   float64 `json:"fuel_litres"`
	FuelCost     float64 `json:"fuel_cost"`
	RunningHours float64 `json:"running_hours"`
}

// HydrogenSummary holds the operating figures of the hydrogen chain.
type HydrogenSummary struct {
	ProducedKg               float64 `json:"produced_kg"`
	ConsumedKg               float64 `json:"consumed_kg"`
	TankLevelKg              float64 `json:"tank_level_kg"`
	FuelCellEnergyKWh        float64 `json:"fuel_cell_energy_kwh"`
	ElectrolyserHours        float64 `json:"electrolyser_hours"`
	ElectrolyserReplacements int     `json:"electrolyser_replacements"`
	FuelCellHours            float64 `json:"fuel_cell_hours"`
	FuelCellReplacements     int     `json:"fuel_cell_replacements"`
}

// Summary condenses a run for reporting.
type Summary struct {
	RunID         string           `json:"run_id"`
	Scenario      string           `json:"scenario"`
	Mode          string           `json:"mode"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	StepMinutes   float64          `json:"step_minutes"`
	Steps         int              `json:"steps"`
	SystemCovered bool             `json:"system_covered"`
	DemandKWh     float64          `json:"demand_kwh"`
	UnmetKWh      float64          `json:"unmet_kwh"`
	UnmetSteps    int              `json:"unmet_steps"`
	MaxShortfall  ledger.Shortfall `json:"max_shortfall"`
	Components    []ledger.Totals  `json:"components"`
	Diesel        []DieselSummary  `json:"diesel,omitempty"`
	Hydrogen      *HydrogenSummary `json:"hydrogen,omitempty"`
	Eco           eco.Report       `json:"eco"`
}

// Run is what a sink receives: the summary and the full ledger.
type Run struct {
	Summary Summary
	Ledger  *ledger.Ledger
	Unmet   ledger.UnmetRecord
}
