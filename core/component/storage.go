package component

import "math"

// StorageParams defines the physical parameters of a battery.
// Units: capacity in kWh, power in kW, efficiencies and SOC as fractions.
type StorageParams struct {
	CapacityKWh         float64
	NominalPowerKW      float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	SOCMin              float64
	SOCMax              float64
	InitialSOC          float64
}

// Validate checks the parameters are physically consistent.
func (p StorageParams) Validate(name string) error {
	if p.CapacityKWh <= 0 {
		return invalid(name, "capacity must be positive, got %v", p.CapacityKWh)
	}
	if p.NominalPowerKW <= 0 {
		return invalid(name, "nominal power must be positive, got %v", p.NominalPowerKW)
	}
	if err := checkEfficiency(name, "charge efficiency", p.ChargeEfficiency); err != nil {
		return err
	}
	if err := checkEfficiency(name, "discharge efficiency", p.DischargeEfficiency); err != nil {
		return err
	}
	if err := checkBounds(name, p.SOCMin, p.SOCMax); err != nil {
		return err
	}
	if p.InitialSOC < p.SOCMin || p.InitialSOC > p.SOCMax {
		return invalid(name, "initial soc %v outside [%v,%v]", p.InitialSOC, p.SOCMin, p.SOCMax)
	}
	return nil
}

// Mode is the operation a storage performed during its last step.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCharging
	ModeDischarging
)

func (m Mode) String() string {
	switch m {
	case ModeCharging:
		return "charging"
	case ModeDischarging:
		return "discharging"
	default:
		return "idle"
	}
}

// Phase tracks whether a storage has a committed state to extend.
type Phase int

const (
	// PhaseInitial holds until the first step of the horizon has passed.
	// Operations requested during the first step are no-ops.
	PhaseInitial Phase = iota
	// PhaseActive accepts one charge or discharge per step.
	PhaseActive
)

// StorageState is the committed state of a battery.
type StorageState struct {
	StoredEnergyKWh float64
	SOC             float64
	Phase           Phase
	Mode            Mode
	// Step is the last step an operation was committed for.
	Step int
}

// Storage is a battery with asymmetric charge and discharge efficiencies.
type Storage struct {
	name      string
	params    StorageParams
	stepHours float64
	state     StorageState
}

// NewStorage validates params and returns a battery holding
// InitialSOC*CapacityKWh. stepHours is the horizon step length in hours.
func NewStorage(name string, params StorageParams, stepHours float64) (*Storage, error) {
	if name == "" {
		return nil, invalid("storage", "name is required")
	}
	if err := params.Validate(name); err != nil {
		return nil, err
	}
	if stepHours <= 0 {
		return nil, invalid(name, "step duration must be positive, got %v", stepHours)
	}
	s := &Storage{name: name, params: params, stepHours: stepHours}
	s.Reset()
	return s, nil
}

// Reset restores the initial state so a new horizon can be simulated.
func (s *Storage) Reset() {
	s.state = StorageState{
		StoredEnergyKWh: s.params.InitialSOC * s.params.CapacityKWh,
		SOC:             s.params.InitialSOC,
		Phase:           PhaseInitial,
		Mode:            ModeIdle,
		Step:            -1,
	}
}

func (s *Storage) Name() string          { return s.name }
func (s *Storage) Params() StorageParams { return s.params }
func (s *Storage) State() StorageState   { return s.state }
func (s *Storage) SOC() float64          { return s.state.SOC }

// begin opens step for an operation. It returns false during step 0 and
// when an operation was already committed for step.
func (s *Storage) begin(step int) bool {
	if s.state.Phase == PhaseInitial {
		if step <= 0 {
			return false
		}
		s.state.Phase = PhaseActive
	}
	if step == s.state.Step && s.state.Mode != ModeIdle {
		return false
	}
	return true
}

func (s *Storage) commit(step int, stored float64, mode Mode) {
	lo := s.params.SOCMin * s.params.CapacityKWh
	hi := s.params.SOCMax * s.params.CapacityKWh
	stored = math.Max(lo, math.Min(hi, stored))
	s.state.StoredEnergyKWh = stored
	s.state.SOC = stored / s.params.CapacityKWh
	s.state.Mode = mode
	s.state.Step = step
}

// Charge offers power kW to the battery during step and returns the power it
// accepted. The request is clamped to the nominal power and to the headroom
// below SOCMax, taking the charge efficiency into account.
func (s *Storage) Charge(step int, power float64) float64 {
	if power <= 0 || !s.begin(step) {
		return 0
	}
	p := math.Min(power, s.params.NominalPowerKW)
	headroom := (s.params.SOCMax - s.state.SOC) * s.params.CapacityKWh
	if headroom <= 0 {
		return 0
	}
	p = math.Min(p, headroom/s.params.ChargeEfficiency/s.stepHours)
	if p <= 0 {
		return 0
	}
	s.commit(step, s.state.StoredEnergyKWh+p*s.stepHours*s.params.ChargeEfficiency, ModeCharging)
	return p
}

// Discharge requests power kW from the battery during step. The returned value
// is signed negative: it is the power leaving the storage. The request is
// clamped to the nominal power and to the energy above SOCMin, of which only
// the discharge efficiency share reaches the bus.
func (s *Storage) Discharge(step int, power float64) float64 {
	if power <= 0 || !s.begin(step) {
		return 0
	}
	p := math.Min(power, s.params.NominalPowerKW)
	available := (s.state.SOC - s.params.SOCMin) * s.params.CapacityKWh
	if available <= 0 {
		return 0
	}
	p = math.Min(p, available*s.params.DischargeEfficiency/s.stepHours)
	if p <= 0 {
		return 0
	}
	s.commit(step, s.state.StoredEnergyKWh-p*s.stepHours/s.params.DischargeEfficiency, ModeDischarging)
	return -p
}
