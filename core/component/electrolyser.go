package component

import "math"

// ElectrolyserParams configures an electrolyser and its parabolic efficiency
// curve. Relative powers are percentages of the nominal power.
type ElectrolyserParams struct {
	NominalPowerKW     float64
	PeakEfficiency     float64
	PeakRelativePower  float64
	FullLoadEfficiency float64
	// MinRelativePower is the cut-in threshold below which nothing is produced.
	MinRelativePower float64
	LifetimeHours    float64
}

// ElectrolyserLog records one production step.
type ElectrolyserLog struct {
	Step          int
	PowerKW       float64
	RelativePower float64
	Efficiency    float64
	HydrogenKg    float64
}

// Electrolyser converts electrical power into hydrogen mass.
type Electrolyser struct {
	name       string
	params     ElectrolyserParams
	stepHours  float64
	curvature  float64
	clock      operatingClock
	logs       []ElectrolyserLog
	producedKg float64
}

// NewElectrolyser validates params and derives the efficiency curvature so
// that the curve passes through FullLoadEfficiency at 100% relative power.
func NewElectrolyser(name string, params ElectrolyserParams, stepHours float64) (*Electrolyser, error) {
	if name == "" {
		return nil, invalid("electrolyser", "name is required")
	}
	if params.NominalPowerKW <= 0 {
		return nil, invalid(name, "nominal power must be positive, got %v", params.NominalPowerKW)
	}
	if err := checkEfficiency(name, "peak efficiency", params.PeakEfficiency); err != nil {
		return nil, err
	}
	if err := checkEfficiency(name, "full load efficiency", params.FullLoadEfficiency); err != nil {
		return nil, err
	}
	if params.FullLoadEfficiency > params.PeakEfficiency {
		return nil, invalid(name, "full load efficiency %v above peak %v", params.FullLoadEfficiency, params.PeakEfficiency)
	}
	if params.PeakRelativePower <= 0 || params.PeakRelativePower >= 100 {
		return nil, invalid(name, "peak relative power must be within (0,100), got %v", params.PeakRelativePower)
	}
	if params.MinRelativePower < 0 || params.MinRelativePower >= 100 {
		return nil, invalid(name, "min relative power must be within [0,100), got %v", params.MinRelativePower)
	}
	if stepHours <= 0 {
		return nil, invalid(name, "step duration must be positive, got %v", stepHours)
	}
	span := 100 - params.PeakRelativePower
	return &Electrolyser{
		name:      name,
		params:    params,
		stepHours: stepHours,
		curvature: (params.PeakEfficiency - params.FullLoadEfficiency) / (span * span),
		clock:     operatingClock{lifetime: params.LifetimeHours},
	}, nil
}

func (e *Electrolyser) Name() string               { return e.name }
func (e *Electrolyser) Params() ElectrolyserParams { return e.params }
func (e *Electrolyser) OperatingHours() float64    { return e.clock.hours }
func (e *Electrolyser) Replacements() int          { return e.clock.replacements }
func (e *Electrolyser) ProducedKg() float64        { return e.producedKg }

// Logs returns a copy of the production log.
func (e *Electrolyser) Logs() []ElectrolyserLog {
	return append([]ElectrolyserLog(nil), e.logs...)
}

// Reset clears logs and operating hours.
func (e *Electrolyser) Reset() {
	e.logs = nil
	e.producedKg = 0
	e.clock = operatingClock{lifetime: e.params.LifetimeHours}
}

// Efficiency evaluates the parabolic curve at a relative power in percent.
func (e *Electrolyser) Efficiency(relativePower float64) float64 {
	d := relativePower - e.params.PeakRelativePower
	return clampZero(e.params.PeakEfficiency - e.curvature*d*d)
}

// Produce computes, without committing anything, the power the electrolyser
// would draw from an offer of power kW and the hydrogen mass it would produce.
func (e *Electrolyser) Produce(power float64) (used, hydrogenKg float64) {
	used = math.Min(clampZero(power), e.params.NominalPowerKW)
	rel := used / e.params.NominalPowerKW * 100
	if used == 0 || rel < e.params.MinRelativePower {
		return 0, 0
	}
	return used, e.massAt(used)
}

// ProduceWithin is Produce with the output capped at maxKg. The power is
// lowered until the mass fits; when that would put the electrolyser below
// its cut-in nothing is produced. The returned mass always equals what Record
// books for the returned power.
func (e *Electrolyser) ProduceWithin(power, maxKg float64) (used, hydrogenKg float64) {
	used, hydrogenKg = e.Produce(power)
	if hydrogenKg <= maxKg {
		return used, hydrogenKg
	}
	if maxKg <= 0 {
		return 0, 0
	}
	lo := e.params.MinRelativePower / 100 * e.params.NominalPowerKW
	if lo <= 0 {
		lo = 0
	} else if e.massAt(lo) > maxKg {
		return 0, 0
	}
	hi := used
	// massAt(lo) <= maxKg < massAt(hi) holds throughout.
	for i := 0; i < 60 && hi-lo > 1e-9; i++ {
		mid := (lo + hi) / 2
		if e.massAt(mid) <= maxKg {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo <= 0 {
		return 0, 0
	}
	return lo, e.massAt(lo)
}

func (e *Electrolyser) massAt(power float64) float64 {
	return power * e.stepHours * e.Efficiency(power/e.params.NominalPowerKW*100) / HydrogenLHV
}

// Record commits a production step decided by the caller and reports whether
// a stack replacement became due.
func (e *Electrolyser) Record(step int, power, hydrogenKg float64) bool {
	if power <= 0 {
		return false
	}
	rel := power / e.params.NominalPowerKW * 100
	e.logs = append(e.logs, ElectrolyserLog{
		Step:          step,
		PowerKW:       power,
		RelativePower: rel,
		Efficiency:    e.Efficiency(rel),
		HydrogenKg:    hydrogenKg,
	})
	e.producedKg += hydrogenKg
	return e.clock.tick(e.stepHours)
}

// Run produces hydrogen from power kW during step and returns the power drawn
// and the mass produced.
func (e *Electrolyser) Run(step int, power float64) (used, hydrogenKg float64) {
	used, hydrogenKg = e.Produce(power)
	e.Record(step, used, hydrogenKg)
	return used, hydrogenKg
}
