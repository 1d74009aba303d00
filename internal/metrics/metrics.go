// Package metrics exposes render counters and timings for Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/forcefield/internal/potential"
)

const namespace = "forcefield"

// Kinds of render work.
const (
	KindCurve   = "curve"
	KindDiagram = "diagram"
	KindFrame   = "frame"
	KindSVG     = "svg"
	KindEval    = "eval"
	KindSweep   = "sweep"
)

// Collector owns its registry so tests and several servers in one process
// do not collide on the global one.
type Collector struct {
	Registry *prometheus.Registry

	renders       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	samples       *prometheus.GaugeVec
	singularities *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "renders_total",
				Help:      "Total number of renders by model, kind and outcome",
			},
			[]string{"model", "kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Duration of renders",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"model", "kind"},
		),
		samples: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "curve_samples",
				Help:      "Number of samples in the last curve built for a model",
			},
			[]string{"model"},
		),
		singularities: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "singularities_total",
				Help:      "Evaluations rejected because the closed form diverged",
			},
			[]string{"model"},
		),
	}

	c.Registry.MustRegister(
		c.renders,
		c.duration,
		c.samples,
		c.singularities,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe records one finished render that began at start.
func (c *Collector) Observe(model, kind string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.Is(err, potential.ErrDivisionSingularity) {
			c.singularities.WithLabelValues(model).Inc()
		}
	}
	c.renders.WithLabelValues(model, kind, outcome).Inc()
	c.duration.WithLabelValues(model, kind).Observe(time.Since(start).Seconds())
}

// Samples records the length of the last curve built for model.
func (c *Collector) Samples(model string, n int) {
	c.samples.WithLabelValues(model).Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
