// Package metrics exports container lifecycle counters to Prometheus.
//
// A Collector implements state.Hooks; install it on a registry with
// state.WithRegistryHooks and every container of that registry reports
// through it:
//
//	reg := prometheus.NewRegistry()
//	c := metrics.New(reg)
//	app := state.NewRegistry(state.WithRegistryHooks(c))
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-drift/statekit/pkg/state"
)

const namespace = "statekit"

// Collector counts notifier lifecycle events.
type Collector struct {
	// Active is the number of live notifiers.
	Active prometheus.Gauge

	// Notifications counts notification passes by status kind.
	// Labels: kind (idle, waiting, error, data)
	Notifications *prometheus.CounterVec

	// Observers records how many observers each pass reached.
	Observers prometheus.Histogram

	// Disposals counts disposed notifiers.
	Disposals prometheus.Counter
}

var _ state.Hooks = (*Collector)(nil)

// New creates a collector and registers its metrics with reg. A nil reg
// uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		Active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notifiers_active",
			Help:      "Number of notifiers that are created and not yet disposed",
		}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification passes by status kind",
		}, []string{"kind"}),
		Observers: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_observers",
			Help:      "Observers reached by a notification pass",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		Disposals: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disposals_total",
			Help:      "Total disposed notifiers",
		}),
	}
}

// Created implements state.Hooks.
func (c *Collector) Created(string) { c.Active.Inc() }

// Notified implements state.Hooks.
func (c *Collector) Notified(_ string, kind state.Kind, observers int) {
	c.Notifications.WithLabelValues(kind.String()).Inc()
	c.Observers.Observe(float64(observers))
}

// Disposed implements state.Hooks.
func (c *Collector) Disposed(string) {
	c.Active.Dec()
	c.Disposals.Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
