package dispatch

import "github.com/kilianp07/microgrid/core/component"

// Supplier is a renewable source with a precomputed power series.
type Supplier interface {
	Name() string
	Available(step int) float64
}

// Buffer is an energy buffer the engine charges with renewable surplus and
// discharges against residual load. Charge returns the power accepted;
// Discharge returns the power delivered signed negative. Each is called at
// most once per step.
type Buffer interface {
	Name() string
	Charge(step int, power float64) float64
	Discharge(step int, power float64) float64
}

// Generator produces power on demand.
type Generator interface {
	Name() string
	Run(step int, power float64) float64
}

// resettable components return to their initial state before each run.
type resettable interface {
	Reset()
}

type sized interface {
	Len() int
}

type kinded interface {
	Kind() component.Kind
}

type socReporter interface {
	SOC() float64
}

var (
	_ Supplier  = (*component.Renewable)(nil)
	_ Buffer    = (*component.Storage)(nil)
	_ Generator = (*component.DieselGenerator)(nil)
)
