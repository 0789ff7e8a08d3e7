// Package app assembles a simulation from configuration and fans its result
// out to the configured sinks.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/core/component"
	"github.com/kilianp07/microgrid/core/dispatch"
	"github.com/kilianp07/microgrid/core/eco"
	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/infra/logger"
	"github.com/kilianp07/microgrid/infra/metrics"
	"github.com/kilianp07/microgrid/internal/eventbus"
	"github.com/kilianp07/microgrid/internal/series"
)

// Simulation holds a configured engine and the components it drives.
type Simulation struct {
	Scenario string
	Horizon  horizon.Horizon
	Engine   *dispatch.Engine

	diesels []*component.DieselGenerator
	chain   *dispatch.HydrogenChain
	factors eco.Factors
	log     logger.Logger
}

// Build loads the input series and constructs every component in
// configuration order.
func Build(cfg *config.Config, log logger.Logger) (*Simulation, error) {
	log = logger.OrNop(log)
	h, err := cfg.Horizon.Build()
	if err != nil {
		return nil, fmt.Errorf("horizon: %w", err)
	}
	mode, err := dispatch.ParseGridMode(cfg.Dispatch.Mode)
	if err != nil {
		return nil, err
	}
	prio, err := dispatch.ParseHydrogenPriority(cfg.Dispatch.HydrogenPriority)
	if err != nil {
		return nil, err
	}
	load, err := series.Load(cfg.Load, h)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	stepHours := h.StepHours()
	dc := dispatch.Config{
		Horizon:          h,
		Load:             load,
		Mode:             mode,
		HydrogenPriority: prio,
	}

	if mode != dispatch.OffGrid {
		var blackout []bool
		if !cfg.Grid.Blackout.IsZero() {
			if blackout, err = series.LoadFlags(cfg.Grid.Blackout, h); err != nil {
				return nil, fmt.Errorf("grid blackout: %w", err)
			}
		}
		if dc.Grid, err = component.NewGrid(cfg.Grid.Name, blackout, cfg.Grid.FeedIn); err != nil {
			return nil, err
		}
	}
	for _, rc := range cfg.Renewables {
		values, err := series.Load(rc.Series, h)
		if err != nil {
			return nil, fmt.Errorf("renewable %s: %w", rc.Name, err)
		}
		r, err := component.NewRenewable(rc.Name, component.Kind(rc.Kind), values)
		if err != nil {
			return nil, err
		}
		dc.Renewables = append(dc.Renewables, r)
	}
	for _, sc := range cfg.Storages {
		s, err := component.NewStorage(sc.Name, sc.Params(), stepHours)
		if err != nil {
			return nil, err
		}
		dc.Storages = append(dc.Storages, s)
	}
	sim := &Simulation{Scenario: cfg.Scenario, Horizon: h, factors: cfg.Eco.Factors(), log: log}
	for _, gc := range cfg.Diesel {
		g, err := component.NewDieselGenerator(gc.Name, gc.Params(), stepHours)
		if err != nil {
			return nil, err
		}
		dc.Generators = append(dc.Generators, g)
		sim.diesels = append(sim.diesels, g)
	}
	if hc := cfg.Hydrogen; hc != nil {
		chain, err := buildHydrogen(*hc, stepHours)
		if err != nil {
			return nil, err
		}
		dc.Hydrogen = chain
		sim.chain = chain
	}

	if sim.Engine, err = dispatch.NewEngine(dc, logger.New("dispatch")); err != nil {
		return nil, err
	}
	return sim, nil
}

func buildHydrogen(hc config.HydrogenConfig, stepHours float64) (*dispatch.HydrogenChain, error) {
	el, err := component.NewElectrolyser(hc.Electrolyser.Name, hc.Electrolyser.Params(), stepHours)
	if err != nil {
		return nil, err
	}
	tank, err := component.NewH2Storage(hc.Tank.Name, hc.Tank.Params())
	if err != nil {
		return nil, err
	}
	fc, err := component.NewFuelCell(hc.FuelCell.Name, hc.FuelCell.Params(), stepHours)
	if err != nil {
		return nil, err
	}
	return &dispatch.HydrogenChain{Electrolyser: el, Tank: tank, FuelCell: fc}, nil
}

// Run executes the engine, streams its events to sink while it runs and
// exports the final result. Export errors are returned alongside the run.
func (s *Simulation) Run(ctx context.Context, sink export.ResultSink) (*export.Run, error) {
	if sink == nil {
		sink = export.NopSink{}
	}
	// At most one unmet and two replacement events per step, plus completion.
	bus := eventbus.NewWithBuffer(3*s.Horizon.Len() + 1)
	s.Engine.SetBus(bus)
	collectorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := metrics.StartEventCollector(collectorCtx, bus, sink)

	res, err := s.Engine.Run(ctx)
	bus.Close()
	<-done
	s.Engine.SetBus(nil)
	if err != nil {
		return nil, err
	}
	if n := bus.Dropped(); n > 0 {
		s.log.Warnf("%d engine events dropped", n)
	}

	run := &export.Run{
		Summary: s.Summarize(res),
		Ledger:  res.Ledger,
		Unmet:   res.Unmet,
	}
	if err := sink.Export(ctx, run); err != nil {
		return run, fmt.Errorf("export: %w", err)
	}
	return run, nil
}

// Summarize condenses an engine result with the component accounting.
func (s *Simulation) Summarize(res *dispatch.Result) export.Summary {
	h := res.Horizon
	sum := export.Summary{
		RunID:         res.RunID,
		Scenario:      s.Scenario,
		Mode:          string(res.Mode),
		Start:         h.Start(),
		End:           h.End(),
		StepMinutes:   h.Step().Minutes(),
		Steps:         h.Len(),
		SystemCovered: res.SystemCovered,
		DemandKWh:     res.DemandKWh(),
		UnmetKWh:      res.UnmetKWh(),
		UnmetSteps:    len(res.Unmet),
		MaxShortfall:  res.MaxShortfall,
		Components:    res.Ledger.AllTotals(),
	}
	var litres float64
	for _, g := range s.diesels {
		t := g.Totals()
		litres += t.FuelLitres
		sum.Diesel = append(sum.Diesel, export.DieselSummary{
			Name:         g.Name(),
			EnergyKWh:    t.EnergyKWh,
			FuelLitres:   t.FuelLitres,
			FuelCost:     t.FuelCost,
			RunningHours: t.RunningHours,
		})
	}
	if c := s.chain; c != nil {
		sum.Hydrogen = &export.HydrogenSummary{
			ProducedKg:               c.Electrolyser.ProducedKg(),
			ConsumedKg:               c.FuelCell.HydrogenUsedKg(),
			TankLevelKg:              c.Tank.Level(),
			FuelCellEnergyKWh:        c.FuelCell.EnergyKWh(),
			ElectrolyserHours:        c.Electrolyser.OperatingHours(),
			ElectrolyserReplacements: c.Electrolyser.Replacements(),
			FuelCellHours:            c.FuelCell.OperatingHours(),
			FuelCellReplacements:     c.FuelCell.Replacements(),
		}
	}
	sum.Eco = eco.Score(res.Ledger, res.Demand, litres, s.factors)
	return sum
}

// Simulate is the one-shot path used by the CLI: configure logging, build,
// run and export, then close the sinks.
func Simulate(ctx context.Context, cfg *config.Config) (run *export.Run, err error) {
	closer, err := logger.Configure(cfg.Logging.Options())
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, closer.Close()) }()

	log := logger.New("app")
	sim, err := Build(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	sink, err := export.NewSink(cfg.Sinks)
	if err != nil {
		return nil, fmt.Errorf("sinks: %w", err)
	}
	defer func() { err = errors.Join(err, export.Close(sink)) }()

	run, err = sim.Run(ctx, sink)
	if err != nil {
		return run, err
	}
	log.Infof("scenario %s run %s: covered=%t unmet=%.3f kWh co2=%.1f kg",
		cfg.Scenario, run.Summary.RunID, run.Summary.SystemCovered, run.Summary.UnmetKWh, run.Summary.Eco.TotalCO2Kg)
	return run, nil
}
