package component

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testElectrolyser(t *testing.T) *Electrolyser {
	t.Helper()
	e, err := NewElectrolyser("ely", ElectrolyserParams{
		NominalPowerKW:     100,
		PeakEfficiency:     0.7,
		PeakRelativePower:  30,
		FullLoadEfficiency: 0.6,
		MinRelativePower:   10,
		LifetimeHours:      2,
	}, 1)
	require.NoError(t, err)
	return e
}

func TestElectrolyser_EfficiencyCurve(t *testing.T) {
	e := testElectrolyser(t)
	assert.InDelta(t, 0.7, e.Efficiency(30), 1e-12)
	assert.InDelta(t, 0.6, e.Efficiency(100), 1e-12)
	assert.Less(t, e.Efficiency(10), 0.7)
	assert.Less(t, e.Efficiency(60), 0.7)
}

func TestElectrolyser_CutIn(t *testing.T) {
	e := testElectrolyser(t)
	used, kg := e.Run(1, 9.9)
	assert.Zero(t, used)
	assert.Zero(t, kg)
	assert.Empty(t, e.Logs())
}

func TestElectrolyser_Production(t *testing.T) {
	e := testElectrolyser(t)
	used, kg := e.Run(1, 250)
	assert.Equal(t, 100.0, used)
	assert.InDelta(t, 100*0.6/HydrogenLHV, kg, 1e-12)
	used, kg = e.Run(2, 30)
	assert.Equal(t, 30.0, used)
	assert.InDelta(t, 30*0.7/HydrogenLHV, kg, 1e-12)
	assert.Equal(t, 2.0, e.OperatingHours())
	assert.Equal(t, 1, e.Replacements())
	assert.Len(t, e.Logs(), 2)
}

func TestElectrolyser_ProduceWithin(t *testing.T) {
	e := testElectrolyser(t)

	used, kg := e.ProduceWithin(100, 5)
	assert.Equal(t, 100.0, used)
	assert.InDelta(t, 100*0.6/HydrogenLHV, kg, 1e-12)

	used, kg = e.ProduceWithin(100, 1)
	assert.InDelta(t, 1, kg, 1e-6)
	assert.LessOrEqual(t, kg, 1.0)
	assert.GreaterOrEqual(t, used, 10.0)
	assert.InDelta(t, used*e.Efficiency(used)/HydrogenLHV, kg, 1e-12)

	// 10 kW at cut-in already yields about 0.21 kg
	used, kg = e.ProduceWithin(100, 0.1)
	assert.Zero(t, used)
	assert.Zero(t, kg)
	used, kg = e.ProduceWithin(100, 0)
	assert.Zero(t, used)
	assert.Zero(t, kg)
	assert.Empty(t, e.Logs())
}

func TestElectrolyser_Invalid(t *testing.T) {
	_, err := NewElectrolyser("ely", ElectrolyserParams{NominalPowerKW: 10, PeakEfficiency: 0.5, FullLoadEfficiency: 0.6, PeakRelativePower: 30}, 1)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewElectrolyser("ely", ElectrolyserParams{NominalPowerKW: 10, PeakEfficiency: 0.7, FullLoadEfficiency: 0.6, PeakRelativePower: 100}, 1)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestH2Storage_ClampsToBounds(t *testing.T) {
	s, err := NewH2Storage("tank", H2StorageParams{CapacityKg: 10, SOCMin: 0.1, SOCMax: 0.9, InitialSOC: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 4, s.Charge(1, 6), 1e-12)
	assert.InDelta(t, 9, s.Level(), 1e-12)
	assert.Zero(t, s.Charge(2, 1))
	assert.InDelta(t, 8, s.Discharge(3, 20), 1e-12)
	assert.InDelta(t, 1, s.Level(), 1e-12)
	assert.Zero(t, s.Discharge(4, 1), "nothing below the floor")
	assert.Zero(t, s.Charge(5, -3))
	s.Reset()
	assert.InDelta(t, 0.5, s.SOC(), 1e-12)
}

func TestH2Storage_Invalid(t *testing.T) {
	_, err := NewH2Storage("tank", H2StorageParams{CapacityKg: 10, SOCMin: 0.8, SOCMax: 0.2, InitialSOC: 0.5})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestFuelCell_RecordsAndSchedulesReplacement(t *testing.T) {
	fc, err := NewFuelCell("fc", FuelCellParams{NominalPowerKW: 20, Efficiency: 0.5, LifetimeHours: 1}, 0.5)
	require.NoError(t, err)
	kg := fc.HydrogenFor(40)
	assert.InDelta(t, 20*0.5/(0.5*HydrogenLHV), kg, 1e-12)
	assert.InDelta(t, 20, fc.PowerFrom(kg), 1e-9)
	assert.False(t, fc.Operate(1, kg, 0.5, 20))
	assert.True(t, fc.Operate(2, kg, 0.5, 20))
	assert.False(t, fc.Operate(3, 0, 0.5, 0))
	assert.Equal(t, 1.0, fc.OperatingHours())
	assert.Equal(t, 1, fc.Replacements())
	assert.InDelta(t, 20, fc.EnergyKWh(), 1e-9)
	assert.Len(t, fc.Logs(), 2)
	assert.False(t, math.IsNaN(fc.HydrogenUsedKg()))
}

func TestRenewableAndGrid(t *testing.T) {
	_, err := NewRenewable("pv", KindPV, []float64{1, -1})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewRenewable("pv", KindPV, []float64{math.NaN()})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewRenewable("x", Kind("hydro"), nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	r, err := NewRenewable("pv", KindPV, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, r.Available(1))
	assert.Zero(t, r.Available(5))

	g, err := NewGrid("grid", []bool{false, true}, true)
	require.NoError(t, err)
	assert.True(t, g.Blackout(1))
	assert.False(t, g.Blackout(0))
	assert.True(t, g.HasBlackouts())
	assert.True(t, g.FeedIn())
}
