package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/export"
)

// PromSink exposes the outcome of the last run of each scenario as gauges
// and counts bus events.
type PromSink struct {
	energy       *prometheus.GaugeVec
	peak         *prometheus.GaugeVec
	run          *prometheus.GaugeVec
	unmetEvents  prometheus.Counter
	replacements *prometheus.CounterVec
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	energy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "microgrid_component_energy_kwh",
		Help: "Signed energy of a ledger column over the horizon",
	}, []string{"scenario", "component", "kind"})
	peak := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "microgrid_component_peak_kw",
		Help: "Largest absolute power of a ledger column",
	}, []string{"scenario", "component", "kind"})
	run := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "microgrid_run_value",
		Help: "Run level figures: demand, unmet energy, CO2, renewable share, covered flag",
	}, []string{"scenario", "metric"})
	unmet := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microgrid_unmet_events_total",
		Help: "Uncovered steps seen on the event bus",
	})
	repl := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "microgrid_replacements_total",
		Help: "Stack replacements scheduled during simulation",
	}, []string{"component"})

	var err error
	if energy, err = register(reg, energy); err != nil {
		return nil, err
	}
	if peak, err = register(reg, peak); err != nil {
		return nil, err
	}
	if run, err = register(reg, run); err != nil {
		return nil, err
	}
	if unmet, err = register(reg, unmet); err != nil {
		return nil, err
	}
	if repl, err = register(reg, repl); err != nil {
		return nil, err
	}
	return &PromSink{energy: energy, peak: peak, run: run, unmetEvents: unmet, replacements: repl}, nil
}

// register returns the already registered collector when an identical one
// exists, so several sinks can share a registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Export sets the gauges from the run summary.
func (s *PromSink) Export(_ context.Context, r *export.Run) error {
	sum := r.Summary
	for _, t := range sum.Components {
		s.energy.WithLabelValues(sum.Scenario, t.Name, t.Kind).Set(t.EnergyKWh)
		s.peak.WithLabelValues(sum.Scenario, t.Name, t.Kind).Set(t.PeakKW)
	}
	covered := 0.0
	if sum.SystemCovered {
		covered = 1
	}
	for metric, v := range map[string]float64{
		"demand_kwh":       sum.DemandKWh,
		"unmet_kwh":        sum.UnmetKWh,
		"max_shortfall_kw": sum.MaxShortfall.PowerKW,
		"covered":          covered,
		"co2_kg":           sum.Eco.TotalCO2Kg,
		"renewable_share":  sum.Eco.RenewableShare,
	} {
		s.run.WithLabelValues(sum.Scenario, metric).Set(v)
	}
	return nil
}

// RecordUnmet counts an uncovered step.
func (s *PromSink) RecordUnmet(events.UnmetDemandEvent) error {
	s.unmetEvents.Inc()
	return nil
}

// RecordReplacement counts a stack replacement.
func (s *PromSink) RecordReplacement(ev events.ReplacementEvent) error {
	s.replacements.WithLabelValues(ev.Component).Inc()
	return nil
}
