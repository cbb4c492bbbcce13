// Package metrics exports bucket and network activity as Prometheus
// collectors. Metrics is an observability.Observer: register it in the
// observer registry and name it in a component's config to feed it.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tailored-agentic-units/bucket/bucket"
	"github.com/tailored-agentic-units/bucket/network"
	"github.com/tailored-agentic-units/bucket/observability"
)

const namespace = "bucket"

type Metrics struct {
	// Every observed event, by event type and emitting source
	EventsTotal *prometheus.CounterVec

	// Network cycles
	CycleDuration *prometheus.HistogramVec
	CycleFailures *prometheus.CounterVec
	Recycles      *prometheus.CounterVec

	// Bucket store
	StoreKeys    *prometheus.GaugeVec
	ReadMisses   *prometheus.CounterVec
	DroppedSends *prometheus.CounterVec
}

// New creates and registers all collectors with registry.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		EventsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Total number of observability events",
			},
			[]string{"type", "source"},
		),

		CycleDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "network",
				Name:      "cycle_duration_seconds",
				Help:      "Histogram of component handling cycle latencies",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"component", "outcome"},
		),

		CycleFailures: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "network",
				Name:      "cycle_failures_total",
				Help:      "Total number of handling cycles that returned an error",
			},
			[]string{"component"},
		),

		Recycles: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "network",
				Name:      "recycles_total",
				Help:      "Total number of component recycles",
			},
			[]string{"component"},
		),

		StoreKeys: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "keys",
				Help:      "Current number of keys held by a bucket",
			},
			[]string{"bucket"},
		),

		ReadMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "read_misses_total",
				Help:      "Total number of reads of absent keys",
			},
			[]string{"bucket"},
		),

		DroppedSends: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "dropped_sends_total",
				Help:      "Total number of responses a bucket could not send",
			},
			[]string{"bucket"},
		),
	}
}

func (m *Metrics) OnEvent(ctx context.Context, event observability.Event) {
	m.EventsTotal.WithLabelValues(string(event.Type), event.Source).Inc()

	switch event.Type {
	case network.EventCycleComplete:
		m.observeCycle(event, "success")

	case network.EventCycleFailed:
		m.observeCycle(event, "failure")
		m.CycleFailures.WithLabelValues(event.Source).Inc()

	case network.EventRecycle:
		if name, ok := event.Data["component"].(string); ok {
			m.Recycles.WithLabelValues(name).Inc()
		}

	case bucket.EventInsert:
		if keys, ok := event.Data["keys"].(int); ok {
			m.StoreKeys.WithLabelValues(event.Source).Set(float64(keys))
		}

	case bucket.EventRead:
		if found, ok := event.Data["found"].(bool); ok && !found {
			m.ReadMisses.WithLabelValues(event.Source).Inc()
		}

	case bucket.EventReset:
		m.StoreKeys.WithLabelValues(event.Source).Set(0)

	case bucket.EventSendDropped:
		m.DroppedSends.WithLabelValues(event.Source).Inc()
	}
}

func (m *Metrics) observeCycle(event observability.Event, outcome string) {
	duration, ok := event.Data["duration"].(time.Duration)
	if !ok {
		return
	}
	m.CycleDuration.WithLabelValues(event.Source, outcome).Observe(duration.Seconds())
}
