package dispatch

import (
	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/core/ledger"
)

// UnmetColumn is the trace column holding the uncovered residual of each step.
const UnmetColumn = "unmet"

// Result is the outcome of one run over the horizon.
type Result struct {
	RunID         string
	Mode          GridMode
	Horizon       horizon.Horizon
	Ledger        *ledger.Ledger
	Unmet         ledger.UnmetRecord
	SystemCovered bool
	MaxShortfall  ledger.Shortfall
	// Demand is the gross load served per step.
	Demand []float64
}

// DemandKWh returns the gross demand energy over the horizon.
func (r *Result) DemandKWh() float64 {
	var e float64
	for _, d := range r.Demand {
		e += d
	}
	return e * r.Horizon.StepHours()
}

// UnmetKWh returns the uncovered energy over the horizon.
func (r *Result) UnmetKWh() float64 {
	return r.Unmet.EnergyKWh(r.Horizon.StepHours())
}
