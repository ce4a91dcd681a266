// Package metrics exposes controller activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frudas24/candela/internal/brightness"
)

const namespace = "candela"

// Collector implements brightness.Observer on a private registry.
type Collector struct {
	registry *prometheus.Registry

	applyTotal   *prometheus.CounterVec
	writesTotal  *prometheus.CounterVec
	enumFailures *prometheus.CounterVec
	togglesTotal *prometheus.CounterVec
	mode         *prometheus.GaugeVec
	level        *prometheus.GaugeVec
}

// Ensure Collector implements brightness.Observer.
var _ brightness.Observer = (*Collector)(nil)

// New registers the candela metrics plus Go and process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		applyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_total",
			Help:      "Brightness applications per strategy.",
		}, []string{"strategy"}),
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "display_writes_total",
			Help:      "Per-display brightness writes by outcome.",
		}, []string{"strategy", "result"}),
		enumFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enumeration_failures_total",
			Help:      "Display enumerations that failed.",
		}, []string{"strategy"}),
		togglesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_toggles_total",
			Help:      "Mode switches by direction.",
		}, []string{"from", "to"}),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mode",
			Help:      "1 for the active brightness mode.",
		}, []string{"mode"}),
		level: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "brightness_percent",
			Help:      "Last brightness percent applied per strategy.",
		}, []string{"strategy"}),
	}
	reg.MustRegister(
		c.applyTotal,
		c.writesTotal,
		c.enumFailures,
		c.togglesTotal,
		c.mode,
		c.level,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// SetMode marks mode as the active one.
func (c *Collector) SetMode(mode brightness.Mode) {
	for _, m := range []brightness.Mode{brightness.ModeSoftware, brightness.ModeHardware} {
		v := 0.0
		if m == mode {
			v = 1
		}
		c.mode.WithLabelValues(m.String()).Set(v)
	}
}

// ObserveApply records one strategy application.
func (c *Collector) ObserveApply(r brightness.Report) {
	strategy := r.Mode.String()
	c.applyTotal.WithLabelValues(strategy).Inc()
	if r.EnumerationError != "" {
		c.enumFailures.WithLabelValues(strategy).Inc()
		return
	}
	c.writesTotal.WithLabelValues(strategy, "ok").Add(float64(r.Applied))
	c.writesTotal.WithLabelValues(strategy, "error").Add(float64(len(r.Failures)))
	c.level.WithLabelValues(strategy).Set(float64(r.Percent))
}

// ObserveToggle records a mode switch.
func (c *Collector) ObserveToggle(from, to brightness.Mode) {
	c.togglesTotal.WithLabelValues(from.String(), to.String()).Inc()
	c.SetMode(to)
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
