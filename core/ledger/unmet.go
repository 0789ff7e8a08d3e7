package ledger

import "time"

// Shortfall is one entry of the unmet-demand record.
type Shortfall struct {
	Step    int       `json:"step"`
	Time    time.Time `json:"time"`
	PowerKW float64   `json:"power_kw"`
}

// UnmetRecord is the sparse collection of steps whose demand was not fully
// covered. It is empty when the system covers the whole scenario.
type UnmetRecord []Shortfall

// Covered reports whether no shortfall was recorded.
func (u UnmetRecord) Covered() bool { return len(u) == 0 }

// Max returns the largest single-step shortfall.
func (u UnmetRecord) Max() Shortfall {
	var m Shortfall
	for _, s := range u {
		if s.PowerKW > m.PowerKW {
			m = s
		}
	}
	return m
}

// EnergyKWh returns the total unmet energy for the given step length.
func (u UnmetRecord) EnergyKWh(stepHours float64) float64 {
	var e float64
	for _, s := range u {
		e += s.PowerKW * stepHours
	}
	return e
}

// At returns the shortfall recorded for step, if any.
func (u UnmetRecord) At(step int) (Shortfall, bool) {
	for _, s := range u {
		if s.Step == step {
			return s, true
		}
	}
	return Shortfall{}, false
}
