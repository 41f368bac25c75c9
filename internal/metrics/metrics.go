// Package metrics owns murmur's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Utterance outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeTooLong  = "too_long"
)

// Metrics is a private registry plus the collectors recorded by the session
// and the dispatcher. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	utterances      *prometheus.CounterVec
	actions         *prometheus.CounterVec
	commandFailures *prometheus.CounterVec
	dispatch        prometheus.Histogram
	loaded          prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		utterances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_utterances_total",
				Help: "Utterances resolved, by outcome",
			},
			[]string{"outcome"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_actions_total",
				Help: "Actions dispatched, by kind",
			},
			[]string{"kind"},
		),
		commandFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_command_failures_total",
				Help: "Injected commands that failed, by kind",
			},
			[]string{"kind"},
		),
		dispatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "murmur_dispatch_duration_seconds",
			Help:    "Time spent executing one utterance's actions",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "murmur_grammar_loaded",
			Help: "1 while the grammar is registered with the host",
		}),
	}
	m.registry.MustRegister(
		m.utterances,
		m.actions,
		m.commandFailures,
		m.dispatch,
		m.loaded,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveUtterance(outcome string) {
	if m == nil {
		return
	}
	m.utterances.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAction(kind string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveCommandFailure(kind string) {
	if m == nil {
		return
	}
	m.commandFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatch.Observe(d.Seconds())
}

func (m *Metrics) SetLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.loaded.Set(1)
		return
	}
	m.loaded.Set(0)
}
