package reentry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics bundles the Prometheus metrics of the engine. All fields are
// safe for concurrent use; a nil *EngineMetrics disables instrumentation.
type EngineMetrics struct {
	TickDuration       prometheus.Histogram
	StepsTotal         prometheus.Counter
	LagDroppedSeconds  prometheus.Counter
	Satellites         prometheus.Gauge
	PropagationsActive prometheus.Gauge
	IntegrationErrors  prometheus.Counter
}

// NewEngineMetrics registers the engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineMetrics(reg prometheus.Registerer) (*EngineMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &EngineMetrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sim_tick_duration_seconds",
			Help:    "Wall-clock duration of one real-time clock advance, including all flushed physics steps.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_steps_total",
			Help: "Total number of fixed physics timesteps executed by the real-time clock.",
		}),
		LagDroppedSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_lag_dropped_seconds_total",
			Help: "Total simulated seconds discarded because the backlog exceeded the per-tick budget.",
		}),
		Satellites: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_satellites",
			Help: "Number of tracked satellites.",
		}),
		PropagationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sim_propagations_active",
			Help: "Number of in-flight background trajectory propagations.",
		}),
		IntegrationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sim_integration_errors_total",
			Help: "Total satellites frozen after producing a non-finite state.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.TickDuration, m.StepsTotal, m.LagDroppedSeconds,
		m.Satellites, m.PropagationsActive, m.IntegrationErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
