package component

import "math"

// Kind labels the physical origin of a renewable series.
type Kind string

const (
	KindPV   Kind = "pv"
	KindWind Kind = "wind"
)

// Renewable is a PV or wind plant whose output has been computed upstream as
// a fixed per-step power series in kW.
type Renewable struct {
	name   string
	kind   Kind
	series []float64
}

// NewRenewable validates the series and returns the plant.
func NewRenewable(name string, kind Kind, series []float64) (*Renewable, error) {
	if name == "" {
		return nil, invalid("renewable", "name is required")
	}
	if kind != KindPV && kind != KindWind {
		return nil, invalid(name, "unknown kind %q", kind)
	}
	for i, p := range series {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, invalid(name, "invalid power %v at step %d", p, i)
		}
	}
	cp := make([]float64, len(series))
	copy(cp, series)
	return &Renewable{name: name, kind: kind, series: cp}, nil
}

func (r *Renewable) Name() string { return r.name }
func (r *Renewable) Kind() Kind   { return r.kind }
func (r *Renewable) Len() int     { return len(r.series) }

// Available returns the power the plant can deliver during step.
func (r *Renewable) Available(step int) float64 {
	if step < 0 || step >= len(r.series) {
		return 0
	}
	return r.series[step]
}
