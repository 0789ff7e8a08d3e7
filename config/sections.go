package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/microgrid/core/component"
	"github.com/kilianp07/microgrid/core/dispatch"
	"github.com/kilianp07/microgrid/core/eco"
	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/internal/series"
)

// HorizonConfig describes the simulated time grid. Either End or Steps
// bounds it.
type HorizonConfig struct {
	Start string        `json:"start"`
	End   string        `json:"end"`
	Step  time.Duration `json:"step"`
	Steps int           `json:"steps"`
}

func (c *HorizonConfig) SetDefaults() {
	if c.Step == 0 {
		c.Step = time.Hour
	}
}

func (c HorizonConfig) Validate() error {
	_, err := c.Build()
	return err
}

// Build returns the horizon described by the section.
func (c HorizonConfig) Build() (horizon.Horizon, error) {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return horizon.Horizon{}, fmt.Errorf("start: %w", err)
	}
	switch {
	case c.End != "" && c.Steps > 0:
		return horizon.Horizon{}, errors.New("end and steps are mutually exclusive")
	case c.End != "":
		end, err := time.Parse(time.RFC3339, c.End)
		if err != nil {
			return horizon.Horizon{}, fmt.Errorf("end: %w", err)
		}
		return horizon.New(start, end, c.Step)
	default:
		return horizon.FromSteps(start, c.Step, c.Steps)
	}
}

// GridConfig describes the grid connection. It is ignored off-grid.
type GridConfig struct {
	Name   string `json:"name"`
	FeedIn bool   `json:"feed_in"`
	// Blackout flags the steps without grid; required for unstable-grid.
	Blackout series.Source `json:"blackout"`
}

func (c *GridConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "grid"
	}
}

func (c GridConfig) Validate(mode string) error {
	if mode != string(dispatch.UnstableGrid) {
		return nil
	}
	if c.Blackout.IsZero() {
		return errors.New("unstable-grid requires a blackout series")
	}
	return c.Blackout.Validate()
}

// RenewableConfig describes a PV or wind plant with a precomputed output.
type RenewableConfig struct {
	Name   string        `json:"name"`
	Kind   string        `json:"kind"`
	Series series.Source `json:"series"`
}

func (c *RenewableConfig) SetDefaults() {
	if c.Kind == "" {
		c.Kind = string(component.KindPV)
	}
}

func (c RenewableConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Kind != string(component.KindPV) && c.Kind != string(component.KindWind) {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	return c.Series.Validate()
}

// StorageConfig describes a battery.
type StorageConfig struct {
	Name                string  `json:"name"`
	CapacityKWh         float64 `json:"capacity_kwh"`
	NominalPowerKW      float64 `json:"nominal_power_kw"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	SOCMin              float64 `json:"soc_min"`
	SOCMax              float64 `json:"soc_max"`
	InitialSOC          float64 `json:"initial_soc"`
}

func (c *StorageConfig) SetDefaults() {
	if c.ChargeEfficiency == 0 {
		c.ChargeEfficiency = 0.95
	}
	if c.DischargeEfficiency == 0 {
		c.DischargeEfficiency = 0.95
	}
	if c.SOCMax == 0 {
		c.SOCMax = 1
	}
	if c.InitialSOC < c.SOCMin {
		c.InitialSOC = c.SOCMin
	}
}

func (c StorageConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return c.Params().Validate(c.Name)
}

func (c StorageConfig) Params() component.StorageParams {
	return component.StorageParams{
		CapacityKWh:         c.CapacityKWh,
		NominalPowerKW:      c.NominalPowerKW,
		ChargeEfficiency:    c.ChargeEfficiency,
		DischargeEfficiency: c.DischargeEfficiency,
		SOCMin:              c.SOCMin,
		SOCMax:              c.SOCMax,
		InitialSOC:          c.InitialSOC,
	}
}

// DieselConfig describes a diesel generator.
type DieselConfig struct {
	Name             string                 `json:"name"`
	NominalPowerKW   float64                `json:"nominal_power_kw"`
	FuelRateFullLoad float64                `json:"fuel_rate_full_load"`
	FuelPrice        float64                `json:"fuel_price"`
	Curve            []component.CurvePoint `json:"curve"`
}

func (c *DieselConfig) SetDefaults() {}

func (c DieselConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.NominalPowerKW <= 0 {
		return fmt.Errorf("nominal_power_kw must be positive, got %v", c.NominalPowerKW)
	}
	if c.FuelRateFullLoad < 0 || c.FuelPrice < 0 {
		return errors.New("fuel_rate_full_load and fuel_price must not be negative")
	}
	return nil
}

func (c DieselConfig) Params() component.DieselParams {
	return component.DieselParams{
		NominalPowerKW:   c.NominalPowerKW,
		FuelRateFullLoad: c.FuelRateFullLoad,
		FuelPrice:        c.FuelPrice,
		Curve:            c.Curve,
	}
}

// HydrogenConfig describes the electrolyser, tank and fuel cell chain.
type HydrogenConfig struct {
	Electrolyser ElectrolyserConfig `json:"electrolyser"`
	Tank         TankConfig         `json:"tank"`
	FuelCell     FuelCellConfig     `json:"fuel_cell"`
}

type ElectrolyserConfig struct {
	Name               string  `json:"name"`
	NominalPowerKW     float64 `json:"nominal_power_kw"`
	PeakEfficiency     float64 `json:"peak_efficiency"`
	PeakRelativePower  float64 `json:"peak_relative_power"`
	FullLoadEfficiency float64 `json:"full_load_efficiency"`
	MinRelativePower   float64 `json:"min_relative_power"`
	LifetimeHours      float64 `json:"lifetime_hours"`
}

type TankConfig struct {
	Name       string  `json:"name"`
	CapacityKg float64 `json:"capacity_kg"`
	SOCMin     float64 `json:"soc_min"`
	SOCMax     float64 `json:"soc_max"`
	InitialSOC float64 `json:"initial_soc"`
}

type FuelCellConfig struct {
	Name           string  `json:"name"`
	NominalPowerKW float64 `json:"nominal_power_kw"`
	Efficiency     float64 `json:"efficiency"`
	LifetimeHours  float64 `json:"lifetime_hours"`
}

func (c *HydrogenConfig) SetDefaults() {
	e := &c.Electrolyser
	if e.Name == "" {
		e.Name = "electrolyser"
	}
	if e.PeakEfficiency == 0 {
		e.PeakEfficiency = 0.7
	}
	if e.PeakRelativePower == 0 {
		e.PeakRelativePower = 30
	}
	if e.FullLoadEfficiency == 0 {
		e.FullLoadEfficiency = 0.6
	}
	if c.Tank.Name == "" {
		c.Tank.Name = "h2_tank"
	}
	if c.Tank.SOCMax == 0 {
		c.Tank.SOCMax = 1
	}
	if c.Tank.InitialSOC < c.Tank.SOCMin {
		c.Tank.InitialSOC = c.Tank.SOCMin
	}
	if c.FuelCell.Name == "" {
		c.FuelCell.Name = "fuel_cell"
	}
	if c.FuelCell.Efficiency == 0 {
		c.FuelCell.Efficiency = 0.5
	}
}

func (c HydrogenConfig) Validate() error {
	var errs []error
	if c.Electrolyser.NominalPowerKW <= 0 {
		errs = append(errs, errors.New("electrolyser.nominal_power_kw must be positive"))
	}
	if c.Tank.CapacityKg <= 0 {
		errs = append(errs, errors.New("tank.capacity_kg must be positive"))
	}
	if c.FuelCell.NominalPowerKW <= 0 {
		errs = append(errs, errors.New("fuel_cell.nominal_power_kw must be positive"))
	}
	return errors.Join(errs...)
}

func (c ElectrolyserConfig) Params() component.ElectrolyserParams {
	return component.ElectrolyserParams{
		NominalPowerKW:     c.NominalPowerKW,
		PeakEfficiency:     c.PeakEfficiency,
		PeakRelativePower:  c.PeakRelativePower,
		FullLoadEfficiency: c.FullLoadEfficiency,
		MinRelativePower:   c.MinRelativePower,
		LifetimeHours:      c.LifetimeHours,
	}
}

func (c TankConfig) Params() component.H2StorageParams {
	return component.H2StorageParams{
		CapacityKg: c.CapacityKg,
		SOCMin:     c.SOCMin,
		SOCMax:     c.SOCMax,
		InitialSOC: c.InitialSOC,
	}
}

func (c FuelCellConfig) Params() component.FuelCellParams {
	return component.FuelCellParams{
		NominalPowerKW: c.NominalPowerKW,
		Efficiency:     c.Efficiency,
		LifetimeHours:  c.LifetimeHours,
	}
}

// DispatchConfig selects the grid topology and the hydrogen priority.
type DispatchConfig struct {
	Mode             string `json:"mode"`
	HydrogenPriority string `json:"hydrogen_priority"`
}

// SetDefaults picks stable-grid, and disables hydrogen dispatch when no
// chain is configured.
func (c *DispatchConfig) SetDefaults(hasHydrogen bool) {
	if c.Mode == "" {
		c.Mode = string(dispatch.StableGrid)
	}
	if m, err := dispatch.ParseGridMode(c.Mode); err == nil {
		c.Mode = string(m)
	}
	if c.HydrogenPriority == "" {
		if hasHydrogen {
			c.HydrogenPriority = string(dispatch.HydrogenAfterBattery)
		} else {
			c.HydrogenPriority = string(dispatch.HydrogenDisabled)
		}
	}
}

func (c DispatchConfig) Validate() error {
	if _, err := dispatch.ParseGridMode(c.Mode); err != nil {
		return err
	}
	_, err := dispatch.ParseHydrogenPriority(c.HydrogenPriority)
	return err
}

// EcoConfig overrides the emission factors.
type EcoConfig struct {
	DieselKgPerLitre float64 `json:"diesel_kg_per_litre"`
	GridKgPerKWh     float64 `json:"grid_kg_per_kwh"`
}

func (c EcoConfig) Validate() error {
	if c.DieselKgPerLitre < 0 || c.GridKgPerKWh < 0 {
		return errors.New("emission factors must not be negative")
	}
	return nil
}

func (c EcoConfig) Factors() eco.Factors {
	return eco.Factors{DieselKgPerLitre: c.DieselKgPerLitre, GridKgPerKWh: c.GridKgPerKWh}.WithDefaults()
}
