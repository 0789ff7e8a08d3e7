package component

import "math"

// H2StorageParams configures a hydrogen tank. Bounds are fractions of capacity.
type H2StorageParams struct {
	CapacityKg float64
	SOCMin     float64
	SOCMax     float64
	InitialSOC float64
}

// H2Storage buffers hydrogen mass between the electrolyser and the fuel cell.
type H2Storage struct {
	name   string
	params H2StorageParams
	level  float64
}

// NewH2Storage validates params and returns a tank filled to InitialSOC.
func NewH2Storage(name string, params H2StorageParams) (*H2Storage, error) {
	if name == "" {
		return nil, invalid("h2 storage", "name is required")
	}
	if params.CapacityKg <= 0 {
		return nil, invalid(name, "capacity must be positive, got %v", params.CapacityKg)
	}
	if err := checkBounds(name, params.SOCMin, params.SOCMax); err != nil {
		return nil, err
	}
	if params.InitialSOC < params.SOCMin || params.InitialSOC > params.SOCMax {
		return nil, invalid(name, "initial soc %v outside [%v,%v]", params.InitialSOC, params.SOCMin, params.SOCMax)
	}
	s := &H2Storage{name: name, params: params}
	s.Reset()
	return s, nil
}

func (s *H2Storage) Name() string            { return s.name }
func (s *H2Storage) Params() H2StorageParams { return s.params }

// Level returns the current mass in kg.
func (s *H2Storage) Level() float64 { return s.level }

// SOC returns the fill fraction.
func (s *H2Storage) SOC() float64 { return s.level / s.params.CapacityKg }

// Reset refills the tank to its initial level.
func (s *H2Storage) Reset() { s.level = s.params.InitialSOC * s.params.CapacityKg }

func (s *H2Storage) floor() float64   { return s.params.SOCMin * s.params.CapacityKg }
func (s *H2Storage) ceiling() float64 { return s.params.SOCMax * s.params.CapacityKg }

// Headroom returns the mass the tank can still accept.
func (s *H2Storage) Headroom() float64 { return clampZero(s.ceiling() - s.level) }

// Available returns the mass that can be drawn before reaching SOCMin.
func (s *H2Storage) Available() float64 { return clampZero(s.level - s.floor()) }

// Charge stores up to mass kg and returns the mass accepted. Inflow beyond
// SOCMax is truncated.
func (s *H2Storage) Charge(_ int, mass float64) float64 {
	accepted := math.Min(clampZero(mass), s.Headroom())
	s.level = math.Min(s.ceiling(), s.level+accepted)
	return accepted
}

// Discharge draws up to mass kg and returns the mass delivered. Outflow below
// SOCMin is truncated; nothing is delivered once the floor is reached.
func (s *H2Storage) Discharge(_ int, mass float64) float64 {
	delivered := math.Min(clampZero(mass), s.Available())
	s.level = math.Max(s.floor(), s.level-delivered)
	return delivered
}
