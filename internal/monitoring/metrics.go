package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the run counters on a private registry, so several runs in
// one process never collide. It satisfies analysis.Metrics.
type Metrics struct {
	reg *prometheus.Registry

	EventsProcessed *prometheus.CounterVec
	EventsAccepted  *prometheus.CounterVec
	EventsRejected  *prometheus.CounterVec
	Pairs           *prometheus.CounterVec
	BinMisses       *prometheus.CounterVec
}

// NewMetrics registers the femto counters on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		EventsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femto",
			Subsystem: "analysis",
			Name:      "events_processed_total",
			Help:      "Events that entered an analysis after mixing-bin lookup",
		}, []string{"analysis"}),
		EventsAccepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femto",
			Subsystem: "analysis",
			Name:      "events_accepted_total",
			Help:      "Events that passed the event cut and collection size check",
		}, []string{"analysis"}),
		EventsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femto",
			Subsystem: "analysis",
			Name:      "events_rejected_total",
			Help:      "Rejected events by reason (event_cut, size, no_event_plane)",
		}, []string{"analysis", "reason"}),
		Pairs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femto",
			Subsystem: "analysis",
			Name:      "pairs_accepted_total",
			Help:      "Pairs that passed the pair cut, by kind (real, mixed, like_sign)",
		}, []string{"analysis", "kind"}),
		BinMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "femto",
			Subsystem: "mixing",
			Name:      "bin_misses_total",
			Help:      "Events outside a mixing axis, by axis and side",
		}, []string{"analysis", "axis", "side"}),
	}
}

func (m *Metrics) EventProcessed(a string) { m.EventsProcessed.WithLabelValues(a).Inc() }
func (m *Metrics) EventAccepted(a string)  { m.EventsAccepted.WithLabelValues(a).Inc() }

func (m *Metrics) EventRejected(a, reason string) {
	m.EventsRejected.WithLabelValues(a, reason).Inc()
}

func (m *Metrics) PairsAccepted(a, kind string, n int64) {
	m.Pairs.WithLabelValues(a, kind).Add(float64(n))
}

func (m *Metrics) BinMiss(a, axis, side string) {
	m.BinMisses.WithLabelValues(a, axis, side).Inc()
}

// Registry exposes the gatherer, e.g. for a push gateway.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes every counter in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	Logf("wrote metrics to %s", path)
	return nil
}
