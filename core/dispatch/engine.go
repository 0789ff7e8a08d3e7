// Package dispatch runs the time-stepped allocation of supply to load over a
// micro-grid and records the outcome in a ledger.
package dispatch

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/microgrid/core/component"
	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/horizon"
	"github.com/kilianp07/microgrid/core/ledger"
	"github.com/kilianp07/microgrid/core/logger"
	"github.com/kilianp07/microgrid/internal/eventbus"
)

// unmetTolerance is the residual below which a step counts as covered.
const unmetTolerance = 1e-9

// Config lists the components the engine iterates. Slice order is the
// registration order and acts as the tie-break everywhere.
type Config struct {
	Horizon    horizon.Horizon
	Load       []float64
	Mode       GridMode
	Grid       *component.Grid
	Renewables []Supplier
	Storages   []Buffer
	Generators []Generator
	Hydrogen   *HydrogenChain
	// HydrogenPriority is ignored without a chain. Empty means after-battery.
	HydrogenPriority HydrogenPriority
}

// slot is a buffer with the ledger columns its two directions are booked to.
type slot struct {
	buf       Buffer
	chargeCol string
	dropCol   string
}

// Engine allocates supply to load step by step.
type Engine struct {
	cfg      Config
	log      logger.Logger
	bus      eventbus.EventBus
	order    []slot
	gridName string
	h2       *hydrogenBuffer

	// per-run state
	ledger *ledger.Ledger
	runID  string
}

// NewEngine validates cfg and returns an engine ready to run.
func NewEngine(cfg Config, log logger.Logger) (*Engine, error) {
	if log == nil {
		log = nopLogger{}
	}
	if cfg.Horizon.IsZero() {
		return nil, fmt.Errorf("dispatch: empty horizon")
	}
	n := cfg.Horizon.Len()
	if len(cfg.Load) != n {
		return nil, fmt.Errorf("dispatch: load has %d steps, horizon has %d", len(cfg.Load), n)
	}
	switch cfg.Mode {
	case OffGrid, StableGrid, UnstableGrid:
	default:
		return nil, fmt.Errorf("dispatch: unknown grid mode %q", cfg.Mode)
	}
	e := &Engine{cfg: cfg, log: log}
	if cfg.Mode.connected() {
		if cfg.Grid == nil {
			return nil, fmt.Errorf("dispatch: %s requires a grid", cfg.Mode)
		}
		e.gridName = cfg.Grid.Name()
	}
	if cfg.Mode == UnstableGrid {
		if !cfg.Grid.HasBlackouts() {
			return nil, fmt.Errorf("dispatch: unstable-grid requires a blackout series")
		}
		if cfg.Grid.BlackoutLen() != n {
			return nil, fmt.Errorf("dispatch: blackout series has %d steps, horizon has %d", cfg.Grid.BlackoutLen(), n)
		}
	}
	for _, r := range cfg.Renewables {
		if r == nil {
			return nil, fmt.Errorf("dispatch: nil renewable")
		}
		if s, ok := r.(sized); ok && s.Len() != n {
			return nil, fmt.Errorf("dispatch: renewable %s has %d steps, horizon has %d", r.Name(), s.Len(), n)
		}
	}
	for _, s := range cfg.Storages {
		if s == nil {
			return nil, fmt.Errorf("dispatch: nil storage")
		}
	}
	for _, g := range cfg.Generators {
		if g == nil {
			return nil, fmt.Errorf("dispatch: nil generator")
		}
	}

	batteries := make([]slot, 0, len(cfg.Storages)+1)
	for _, s := range cfg.Storages {
		batteries = append(batteries, slot{buf: s, chargeCol: s.Name(), dropCol: s.Name()})
	}
	e.order = batteries
	if cfg.Hydrogen != nil {
		if err := cfg.Hydrogen.validate(); err != nil {
			return nil, fmt.Errorf("dispatch: %w", err)
		}
		prio := cfg.HydrogenPriority
		if prio == "" {
			prio = HydrogenAfterBattery
		}
		e.cfg.HydrogenPriority = prio
		e.h2 = &hydrogenBuffer{chain: cfg.Hydrogen, replaced: e.replaced}
		hs := slot{buf: e.h2, chargeCol: cfg.Hydrogen.Electrolyser.Name(), dropCol: cfg.Hydrogen.FuelCell.Name()}
		switch prio {
		case HydrogenAfterBattery:
			e.order = append(e.order, hs)
		case HydrogenBeforeBattery:
			e.order = append([]slot{hs}, batteries...)
		case HydrogenDisabled:
		default:
			return nil, fmt.Errorf("dispatch: unknown hydrogen priority %q", prio)
		}
	}
	// Build a ledger once so that naming conflicts surface at construction.
	if _, err := e.newLedger(); err != nil {
		return nil, err
	}
	return e, nil
}

// SetBus configures the bus events are published on.
func (e *Engine) SetBus(bus eventbus.EventBus) { e.bus = bus }

// Mode returns the grid topology.
func (e *Engine) Mode() GridMode { return e.cfg.Mode }

// HydrogenPriority returns the effective hydrogen priority.
func (e *Engine) HydrogenPriority() HydrogenPriority {
	if e.cfg.Hydrogen == nil {
		return HydrogenDisabled
	}
	return e.cfg.HydrogenPriority
}

func (e *Engine) hydrogenActive() bool {
	return e.h2 != nil && e.cfg.HydrogenPriority != HydrogenDisabled
}

func (e *Engine) newLedger() (*ledger.Ledger, error) {
	l := ledger.New(e.cfg.Horizon)
	var cols []ledger.Column
	for _, r := range e.cfg.Renewables {
		kind := "renewable"
		if k, ok := r.(kinded); ok {
			kind = string(k.Kind())
		}
		cols = append(cols, ledger.Column{Name: r.Name(), Kind: kind})
	}
	for _, s := range e.cfg.Storages {
		cols = append(cols, ledger.Column{Name: s.Name(), Kind: "storage"})
	}
	if e.hydrogenActive() {
		cols = append(cols,
			ledger.Column{Name: e.cfg.Hydrogen.Electrolyser.Name(), Kind: "electrolyser"},
			ledger.Column{Name: e.cfg.Hydrogen.FuelCell.Name(), Kind: "fuel_cell"},
		)
	}
	for _, g := range e.cfg.Generators {
		cols = append(cols, ledger.Column{Name: g.Name(), Kind: "diesel"})
	}
	if e.gridName != "" {
		cols = append(cols, ledger.Column{Name: e.gridName, Kind: "grid"})
	}
	for _, r := range e.cfg.Renewables {
		cols = append(cols, ledger.Column{Name: r.Name() + ".curtailed", Kind: "curtailed", Role: ledger.RoleTrace})
	}
	for _, s := range e.cfg.Storages {
		if _, ok := s.(socReporter); ok {
			cols = append(cols, ledger.Column{Name: s.Name() + ".soc", Kind: "soc", Role: ledger.RoleTrace})
		}
	}
	if e.hydrogenActive() {
		cols = append(cols, ledger.Column{Name: e.cfg.Hydrogen.Tank.Name() + ".level", Kind: "level", Role: ledger.RoleTrace})
	}
	cols = append(cols, ledger.Column{Name: UnmetColumn, Kind: "unmet", Role: ledger.RoleTrace})
	for _, c := range cols {
		if err := l.Register(c); err != nil {
			return nil, fmt.Errorf("dispatch: %w", err)
		}
	}
	return l, nil
}

// reset brings every stateful component back to its initial state so that a
// run only depends on the configuration.
func (e *Engine) reset() {
	for _, s := range e.cfg.Storages {
		if r, ok := s.(resettable); ok {
			r.Reset()
		}
	}
	for _, g := range e.cfg.Generators {
		if r, ok := g.(resettable); ok {
			r.Reset()
		}
	}
	if e.cfg.Hydrogen != nil {
		e.cfg.Hydrogen.reset()
	}
}

// Run dispatches the whole horizon. It returns an error only when ctx is
// already done; unmet demand is reported in the result.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	l, err := e.newLedger()
	if err != nil {
		return nil, err
	}
	e.reset()
	e.ledger = l
	e.runID = uuid.NewString()
	mode := string(e.cfg.Mode)
	e.log.Infof("run %s: %d steps of %s, %s", e.runID, e.cfg.Horizon.Len(), e.cfg.Horizon.Step(), mode)

	res := &Result{
		RunID:   e.runID,
		Mode:    e.cfg.Mode,
		Horizon: e.cfg.Horizon,
		Ledger:  l,
		Demand:  make([]float64, e.cfg.Horizon.Len()),
	}
	for step := 0; step < e.cfg.Horizon.Len(); step++ {
		demand := clampZero(e.cfg.Load[step])
		res.Demand[step] = demand
		residual := e.dispatchStep(step, demand)
		l.Set(UnmetColumn, step, residual)
		if residual > unmetTolerance {
			sf := ledger.Shortfall{Step: step, Time: e.cfg.Horizon.At(step), PowerKW: residual}
			res.Unmet = append(res.Unmet, sf)
			unmetSteps.WithLabelValues(mode).Inc()
			e.log.Debugw("unmet demand", map[string]any{
				"run_id": e.runID, "step": step, "time": sf.Time, "power_kw": residual,
			})
			e.publish(events.UnmetDemandEvent{Step: step, Time: sf.Time, PowerKW: residual})
		}
	}
	stepsTotal.WithLabelValues(mode).Add(float64(e.cfg.Horizon.Len()))

	res.SystemCovered = res.Unmet.Covered()
	res.MaxShortfall = res.Unmet.Max()
	maxShortfall.WithLabelValues(mode).Set(res.MaxShortfall.PowerKW)
	runDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if res.SystemCovered {
		e.log.Infof("run %s: demand covered", e.runID)
	} else {
		e.log.Warnf("run %s: %d uncovered steps, max shortfall %.3f kW at step %d",
			e.runID, len(res.Unmet), res.MaxShortfall.PowerKW, res.MaxShortfall.Step)
	}
	e.publish(events.RunCompletedEvent{
		RunID:      e.runID,
		Steps:      e.cfg.Horizon.Len(),
		Covered:    res.SystemCovered,
		UnmetSteps: len(res.Unmet),
	})
	return res, nil
}

// dispatchStep allocates supply for one step and returns the residual load.
func (e *Engine) dispatchStep(step int, demand float64) float64 {
	l := e.ledger
	residual := demand

	// Renewable self-consumption.
	remainder := make([]float64, len(e.cfg.Renewables))
	for i, r := range e.cfg.Renewables {
		avail := clampZero(r.Available(step))
		served := math.Min(avail, residual)
		residual = clampZero(residual - served)
		remainder[i] = avail - served
		l.Set(r.Name(), step, served)
	}

	// Buffer charging from the pooled renewable remainder. Each buffer is
	// offered the whole pool once; what it accepts is taken from the
	// renewables in registration order.
	offer := sum(remainder)
	for _, s := range e.order {
		if offer <= 0 {
			break
		}
		acc := math.Min(clampZero(s.buf.Charge(step, offer)), offer)
		if acc <= 0 {
			continue
		}
		l.Add(s.chargeCol, step, -acc)
		bufferEnergy.WithLabelValues(s.buf.Name(), "charge").Add(acc * e.cfg.Horizon.StepHours())
		offer = clampZero(offer - acc)
		e.drawRemainder(step, remainder, acc)
	}

	gridUp := e.cfg.Mode == StableGrid || (e.cfg.Mode == UnstableGrid && !e.cfg.Grid.Blackout(step))

	if residual > 0 {
		switch {
		case e.cfg.Mode == UnstableGrid && gridUp:
			residual = e.importGrid(step, residual)
		case e.cfg.Mode == StableGrid:
			residual = e.discharge(step, residual)
			residual = e.importGrid(step, residual)
		default:
			// off-grid, or unstable-grid during a blackout
			residual = e.discharge(step, residual)
			residual = e.generate(step, residual)
		}
	}

	if gridUp && e.cfg.Grid.FeedIn() {
		if export := sum(remainder); export > 0 {
			l.Add(e.gridName, step, -export)
			e.drawRemainder(step, remainder, export)
		}
	}
	e.trace(step, remainder)
	return residual
}

// drawRemainder moves amount from the renewable remainders into the
// renewable columns, first registered first.
func (e *Engine) drawRemainder(step int, remainder []float64, amount float64) {
	for i, r := range e.cfg.Renewables {
		if amount <= 0 {
			return
		}
		take := math.Min(remainder[i], amount)
		if take <= 0 {
			continue
		}
		remainder[i] -= take
		amount -= take
		e.ledger.Add(r.Name(), step, take)
	}
}

func (e *Engine) discharge(step int, residual float64) float64 {
	for _, s := range e.order {
		if residual <= 0 {
			break
		}
		out := math.Min(clampZero(-s.buf.Discharge(step, residual)), residual)
		if out <= 0 {
			continue
		}
		e.ledger.Add(s.dropCol, step, out)
		bufferEnergy.WithLabelValues(s.buf.Name(), "discharge").Add(out * e.cfg.Horizon.StepHours())
		residual = clampZero(residual - out)
	}
	return residual
}

func (e *Engine) generate(step int, residual float64) float64 {
	for _, g := range e.cfg.Generators {
		if residual <= 0 {
			break
		}
		out := math.Min(clampZero(g.Run(step, residual)), residual)
		if out <= 0 {
			continue
		}
		e.ledger.Add(g.Name(), step, out)
		generatorRuns.WithLabelValues(g.Name()).Inc()
		residual = clampZero(residual - out)
	}
	return residual
}

// importGrid covers the whole residual from the grid.
func (e *Engine) importGrid(step int, residual float64) float64 {
	e.ledger.Add(e.gridName, step, residual)
	return 0
}

func (e *Engine) trace(step int, remainder []float64) {
	for i, r := range e.cfg.Renewables {
		e.ledger.Set(r.Name()+".curtailed", step, remainder[i])
	}
	for _, s := range e.cfg.Storages {
		if sr, ok := s.(socReporter); ok {
			e.ledger.Set(s.Name()+".soc", step, sr.SOC())
		}
	}
	if e.hydrogenActive() {
		e.ledger.Set(e.cfg.Hydrogen.Tank.Name()+".level", step, e.cfg.Hydrogen.Tank.Level())
	}
}

func (e *Engine) replaced(name string, step, n int) {
	t := e.cfg.Horizon.At(step)
	e.log.Infof("run %s: %s replacement %d due at %s", e.runID, name, n, t.Format(time.RFC3339))
	e.publish(events.ReplacementEvent{Component: name, Step: step, Time: t, Replacements: n})
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func clampZero(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
