package component

import "math"

// FuelCellParams configures a fuel cell.
type FuelCellParams struct {
	NominalPowerKW float64
	Efficiency     float64
	LifetimeHours  float64
}

// FuelCellLog records one operating step.
type FuelCellLog struct {
	Step       int
	HydrogenKg float64
	Efficiency float64
	PowerKW    float64
}

// FuelCell converts hydrogen back to power. It records the decisions of its
// caller and tracks operating hours for replacement scheduling.
type FuelCell struct {
	name      string
	params    FuelCellParams
	stepHours float64
	clock     operatingClock
	logs      []FuelCellLog
	energyKWh float64
	usedKg    float64
}

// NewFuelCell validates params.
func NewFuelCell(name string, params FuelCellParams, stepHours float64) (*FuelCell, error) {
	if name == "" {
		return nil, invalid("fuel cell", "name is required")
	}
	if params.NominalPowerKW <= 0 {
		return nil, invalid(name, "nominal power must be positive, got %v", params.NominalPowerKW)
	}
	if err := checkEfficiency(name, "efficiency", params.Efficiency); err != nil {
		return nil, err
	}
	if params.LifetimeHours < 0 {
		return nil, invalid(name, "lifetime must not be negative")
	}
	if stepHours <= 0 {
		return nil, invalid(name, "step duration must be positive, got %v", stepHours)
	}
	return &FuelCell{
		name:      name,
		params:    params,
		stepHours: stepHours,
		clock:     operatingClock{lifetime: params.LifetimeHours},
	}, nil
}

func (f *FuelCell) Name() string            { return f.name }
func (f *FuelCell) Params() FuelCellParams  { return f.params }
func (f *FuelCell) OperatingHours() float64 { return f.clock.hours }
func (f *FuelCell) Replacements() int       { return f.clock.replacements }
func (f *FuelCell) EnergyKWh() float64      { return f.energyKWh }
func (f *FuelCell) HydrogenUsedKg() float64 { return f.usedKg }

// Logs returns a copy of the operating log.
func (f *FuelCell) Logs() []FuelCellLog {
	return append([]FuelCellLog(nil), f.logs...)
}

// Reset clears logs and operating hours.
func (f *FuelCell) Reset() {
	f.logs = nil
	f.energyKWh = 0
	f.usedKg = 0
	f.clock = operatingClock{lifetime: f.params.LifetimeHours}
}

// HydrogenFor returns the mass needed to deliver power kW for one step,
// after clamping power to the nominal rating.
func (f *FuelCell) HydrogenFor(power float64) float64 {
	p := math.Min(clampZero(power), f.params.NominalPowerKW)
	return p * f.stepHours / (f.params.Efficiency * HydrogenLHV)
}

// PowerFrom returns the power delivered during one step from mass kg.
func (f *FuelCell) PowerFrom(mass float64) float64 {
	return clampZero(mass) * f.params.Efficiency * HydrogenLHV / f.stepHours
}

// Operate records a step decided by the caller: hydrogenUsed kg converted at
// efficiency into powerOutput kW. It reports whether a replacement became due.
func (f *FuelCell) Operate(step int, hydrogenUsed, efficiency, powerOutput float64) bool {
	if powerOutput <= 0 {
		return false
	}
	f.logs = append(f.logs, FuelCellLog{
		Step:       step,
		HydrogenKg: hydrogenUsed,
		Efficiency: efficiency,
		PowerKW:    powerOutput,
	})
	f.energyKWh += powerOutput * f.stepHours
	f.usedKg += hydrogenUsed
	return f.clock.tick(f.stepHours)
}
