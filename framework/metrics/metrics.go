// Package metrics exports container activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/km-arc/go-inject/framework/container"
)

// Collector is a container.Observer backed by Prometheus collectors.
type Collector struct {
	registeredTotal  *prometheus.CounterVec
	invocationsTotal *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	missingTotal     *prometheus.CounterVec
	resolved         prometheus.Gauge
	duration         *prometheus.HistogramVec
}

var _ container.Observer = (*Collector)(nil)

// New creates a Collector and registers it with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		registeredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inject_entities_registered_total",
				Help: "Number of entities registered by kind.",
			},
			[]string{"kind"},
		),
		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inject_factory_invocations_total",
				Help: "Number of factory invocations by entity.",
			},
			[]string{"entity"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inject_factory_errors_total",
				Help: "Number of failed factory invocations by entity.",
			},
			[]string{"entity"},
		),
		missingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inject_missing_dependencies_total",
				Help: "Number of lookups of dependency names that are not registered.",
			},
			[]string{"consumer", "dependency"},
		),
		resolved: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inject_factories_resolved",
				Help: "Number of factories that have produced a value.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inject_factory_duration_seconds",
				Help:    "Time taken by factory invocations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity"},
		),
	}

	for _, col := range []prometheus.Collector{
		c.registeredTotal,
		c.invocationsTotal,
		c.errorsTotal,
		c.missingTotal,
		c.resolved,
		c.duration,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Registered implements container.Observer.
func (c *Collector) Registered(e *container.Entity) {
	c.registeredTotal.WithLabelValues(e.Kind()).Inc()
}

// Resolved implements container.Observer. It is only called for factories.
func (c *Collector) Resolved(e *container.Entity, elapsed time.Duration, err error) {
	name := e.Name()
	c.invocationsTotal.WithLabelValues(name).Inc()
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		c.errorsTotal.WithLabelValues(name).Inc()
		return
	}
	c.resolved.Inc()
}

// MissingDependency implements container.Observer.
func (c *Collector) MissingDependency(consumer, name string) {
	c.missingTotal.WithLabelValues(consumer, name).Inc()
}
