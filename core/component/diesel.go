package component

import "math"

// DieselParams configures a diesel generator.
type DieselParams struct {
	NominalPowerKW float64
	// FuelRateFullLoad is the fuel consumption at 100% loading in litres per hour.
	FuelRateFullLoad float64
	// FuelPrice is the unit price of fuel per litre.
	FuelPrice float64
	// Curve overrides DefaultFuelCurve when not empty.
	Curve []CurvePoint
}

// DieselLog records one generator call.
type DieselLog struct {
	Step        int
	PowerKW     float64
	LoadPercent float64
	FuelRateLPH float64
	FuelLitres  float64
	FuelCost    float64
}

// DieselTotals aggregates a generator's logs.
type DieselTotals struct {
	EnergyKWh    float64
	FuelLitres   float64
	FuelCost     float64
	RunningHours float64
}

// DieselGenerator delivers power on demand and accounts fuel through its
// response curve. It holds no state across steps besides its logs.
type DieselGenerator struct {
	name      string
	params    DieselParams
	curve     FuelCurve
	stepHours float64
	logs      []DieselLog
	totals    DieselTotals
}

// NewDieselGenerator validates params and fits the fuel curve.
func NewDieselGenerator(name string, params DieselParams, stepHours float64) (*DieselGenerator, error) {
	if name == "" {
		return nil, invalid("diesel generator", "name is required")
	}
	if params.NominalPowerKW <= 0 {
		return nil, invalid(name, "nominal power must be positive, got %v", params.NominalPowerKW)
	}
	if params.FuelRateFullLoad < 0 || params.FuelPrice < 0 {
		return nil, invalid(name, "fuel rate and price must not be negative")
	}
	if stepHours <= 0 {
		return nil, invalid(name, "step duration must be positive, got %v", stepHours)
	}
	points := params.Curve
	if len(points) == 0 {
		points = DefaultFuelCurve
	}
	curve, err := NewFuelCurve(points)
	if err != nil {
		return nil, err
	}
	return &DieselGenerator{name: name, params: params, curve: curve, stepHours: stepHours}, nil
}

func (d *DieselGenerator) Name() string         { return d.name }
func (d *DieselGenerator) Params() DieselParams { return d.params }
func (d *DieselGenerator) Curve() FuelCurve     { return d.curve }
func (d *DieselGenerator) Totals() DieselTotals { return d.totals }

// Logs returns a copy of the recorded calls.
func (d *DieselGenerator) Logs() []DieselLog {
	return append([]DieselLog(nil), d.logs...)
}

// Reset clears logs and totals.
func (d *DieselGenerator) Reset() {
	d.logs = nil
	d.totals = DieselTotals{}
}

// Run asks the generator for power kW during step and returns the delivered
// power, which never exceeds the nominal power.
func (d *DieselGenerator) Run(step int, power float64) float64 {
	delivered := math.Min(clampZero(power), d.params.NominalPowerKW)
	if delivered == 0 {
		return 0
	}
	load := delivered / d.params.NominalPowerKW * 100
	rate := d.curve.FuelPercent(load) / 100 * d.params.FuelRateFullLoad
	litres := rate * d.stepHours
	entry := DieselLog{
		Step:        step,
		PowerKW:     delivered,
		LoadPercent: load,
		FuelRateLPH: rate,
		FuelLitres:  litres,
		FuelCost:    litres * d.params.FuelPrice,
	}
	d.logs = append(d.logs, entry)
	d.totals.EnergyKWh += delivered * d.stepHours
	d.totals.FuelLitres += litres
	d.totals.FuelCost += entry.FuelCost
	d.totals.RunningHours += d.stepHours
	return delivered
}
