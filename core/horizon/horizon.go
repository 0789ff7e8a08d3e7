// Package horizon defines the simulation time grid. Every per-step quantity in
// the simulator is indexed against a Horizon: step 0 is Start, step i is
// Start + i*Step and the last step starts strictly before End.
package horizon

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidHorizon is returned when the time grid parameters are inconsistent.
var ErrInvalidHorizon = errors.New("invalid horizon")

// Horizon is an ordered sequence of equally spaced timestamps.
type Horizon struct {
	start time.Time
	step  time.Duration
	n     int
}

// New builds a horizon covering [start, end) with the given step length.
func New(start, end time.Time, step time.Duration) (Horizon, error) {
	if step <= 0 {
		return Horizon{}, fmt.Errorf("%w: step must be positive, got %s", ErrInvalidHorizon, step)
	}
	if !end.After(start) {
		return Horizon{}, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidHorizon, end, start)
	}
	n := int(end.Sub(start) / step)
	if n == 0 {
		return Horizon{}, fmt.Errorf("%w: step %s longer than horizon", ErrInvalidHorizon, step)
	}
	return Horizon{start: start, step: step, n: n}, nil
}

// FromSteps builds a horizon of n steps starting at start.
func FromSteps(start time.Time, step time.Duration, n int) (Horizon, error) {
	if n <= 0 {
		return Horizon{}, fmt.Errorf("%w: step count must be positive, got %d", ErrInvalidHorizon, n)
	}
	return New(start, start.Add(time.Duration(n)*step), step)
}

// Len returns the number of steps.
func (h Horizon) Len() int { return h.n }

// Start returns the first timestamp.
func (h Horizon) Start() time.Time { return h.start }

// End returns the exclusive end of the last step.
func (h Horizon) End() time.Time { return h.start.Add(time.Duration(h.n) * h.step) }

// Step returns the step length.
func (h Horizon) Step() time.Duration { return h.step }

// StepHours returns the step length in hours, the factor converting kW to kWh.
func (h Horizon) StepHours() float64 { return h.step.Hours() }

// Hours returns the total length of the horizon in hours.
func (h Horizon) Hours() float64 { return float64(h.n) * h.step.Hours() }

// At returns the timestamp of step i.
func (h Horizon) At(i int) time.Time { return h.start.Add(time.Duration(i) * h.step) }

// Index returns the step containing t, or false when t is outside the horizon.
func (h Horizon) Index(t time.Time) (int, bool) {
	if t.Before(h.start) || !t.Before(h.End()) {
		return 0, false
	}
	return int(t.Sub(h.start) / h.step), true
}

// Timestamps returns every step start in order.
func (h Horizon) Timestamps() []time.Time {
	ts := make([]time.Time, h.n)
	for i := range ts {
		ts[i] = h.At(i)
	}
	return ts
}

// IsZero reports whether the horizon was never initialised.
func (h Horizon) IsZero() bool { return h.n == 0 }
