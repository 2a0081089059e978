// Package metrics holds the server's prometheus registry and the trace
// engine instruments.
package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Prom is the process-wide instance the HTTP server exposes.
var Prom = New()

// Prometheus bundles a private registry with the engine instruments.
type Prometheus struct {
	registry *prometheus.Registry

	// TraceBuilds counts trace constructions by algorithm and outcome
	// ("ok" or "error").
	TraceBuilds *prometheus.CounterVec

	// TraceBuildDuration observes construction latency by algorithm.
	TraceBuildDuration *prometheus.HistogramVec

	// ActiveSessions tracks the live session count.
	ActiveSessions prometheus.Gauge
}

func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		TraceBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ciphertrace",
			Name:      "trace_builds_total",
			Help:      "Trace constructions by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		TraceBuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ciphertrace",
			Name:      "trace_build_duration_seconds",
			Help:      "Trace construction latency by algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"algorithm"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ciphertrace",
			Name:      "active_sessions",
			Help:      "Number of live playback sessions.",
		}),
	}

	p.registry.MustRegister(p.TraceBuilds, p.TraceBuildDuration, p.ActiveSessions)
	return p
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
