package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	runDuration   *prometheus.HistogramVec
	stepsTotal    *prometheus.CounterVec
	unmetSteps    *prometheus.CounterVec
	maxShortfall  *prometheus.GaugeVec
	bufferEnergy  *prometheus.CounterVec
	generatorRuns *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.GaugeVec, *prometheus.CounterVec, *prometheus.CounterVec) {
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "microgrid_dispatch_run_duration_seconds",
			Help:    "Wall time of a full dispatch run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"grid_mode"},
	)
	steps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microgrid_dispatch_steps_total",
			Help: "Number of time steps dispatched",
		},
		[]string{"grid_mode"},
	)
	unmet := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microgrid_dispatch_unmet_steps_total",
			Help: "Number of steps that ended with uncovered demand",
		},
		[]string{"grid_mode"},
	)
	short := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "microgrid_dispatch_max_shortfall_kw",
			Help: "Largest single-step shortfall of the last run",
		},
		[]string{"grid_mode"},
	)
	buf := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microgrid_dispatch_buffer_energy_kwh_total",
			Help: "Energy exchanged with buffers by direction",
		},
		[]string{"buffer", "direction"},
	)
	gen := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microgrid_dispatch_generator_steps_total",
			Help: "Number of steps a generator was running",
		},
		[]string{"generator"},
	)
	return dur, steps, unmet, short, buf, gen
}

func init() {
	runDuration, stepsTotal, unmetSteps, maxShortfall, bufferEnergy, generatorRuns = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(runDuration, stepsTotal, unmetSteps, maxShortfall, bufferEnergy, generatorRuns)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	runDuration, stepsTotal, unmetSteps, maxShortfall, bufferEnergy, generatorRuns = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
