package manager

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/dispatch"
	"github.com/dshills/eventmgr/internal/event/queue"
)

// Metrics counts dispatches and listener calls.
type Metrics struct {
	dispatches *prometheus.CounterVec
	listeners  *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// Event names are never used as labels.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "dispatches_total",
				Help:      "Total number of event dispatches by outcome",
			},
			[]string{"outcome"},
		),
		listeners: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listener_calls_total",
				Help:      "Total number of listener calls by status",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listener_duration_seconds",
				Help:      "Duration of listener calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.dispatches, m.listeners, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Executed records one listener call.
func (m *Metrics) Executed(_ *event.Event, _ queue.Entry, r dispatch.Result) {
	status := "ok"
	switch {
	case r.IsPanic():
		status = "panic"
	case r.IsError():
		status = "error"
	}
	m.listeners.WithLabelValues(status).Inc()
	m.duration.Observe(r.Duration.Seconds())
}

// Finished records how a dispatch ended.
func (m *Metrics) Finished(_ *event.Event, o dispatch.Outcome) {
	m.dispatches.WithLabelValues(o.String()).Inc()
}
