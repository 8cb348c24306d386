// Package metrics exposes simulation counters through a Prometheus registry
// that can be dumped to a text file in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/dwsim/internal/dynamics"
)

// Namespace prefixes every metric name.
const Namespace = "dwsim"

// Run outcome label values.
const (
	StatusSuccess  = "success"
	StatusCanceled = "canceled"
	StatusFailure  = "failure"
)

// Metrics owns a private registry, so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	steps        prometheus.Counter
	interactions prometheus.Counter
	updates      prometheus.Counter
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	clusters     prometheus.Gauge
	agents       prometheus.Gauge
	heapAlloc    prometheus.Gauge
}

// New creates the metric set and registers it together with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "steps_total",
			Help:      "Simulation steps executed.",
		}),
		interactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "interactions_total",
			Help:      "Agent pairs sampled.",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "updates_total",
			Help:      "Sampled pairs whose opinions were within the confidence bound.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Replicas finished, by outcome.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a replica.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		clusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "clusters",
			Help:      "Opinion clusters at the end of the last replica.",
		}),
		agents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "agents",
			Help:      "Population size of the current batch.",
		}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap in use after the last replica.",
		}),
	}
	m.registry.MustRegister(
		m.steps, m.interactions, m.updates, m.runs,
		m.runDuration, m.clusters, m.agents, m.heapAlloc,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// OnStep implements dynamics.Observer.
func (m *Metrics) OnStep(stats dynamics.StepStats, _ []float64) {
	m.steps.Inc()
	m.interactions.Add(float64(stats.Interactions))
	m.updates.Add(float64(stats.Updates))
}

var _ dynamics.Observer = (*Metrics)(nil)

// SetAgents records the population size of the batch.
func (m *Metrics) SetAgents(n int) { m.agents.Set(float64(n)) }

// ObserveRun records the outcome of a replica.
func (m *Metrics) ObserveRun(status string, d time.Duration, clusters int) {
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
	if status == StatusSuccess {
		m.clusters.Set(float64(clusters))
	}
}

// ObserveMemory records a memory snapshot.
func (m *Metrics) ObserveMemory(s MemorySnapshot) {
	m.heapAlloc.Set(float64(s.HeapAlloc))
}

// WriteTextfile atomically writes every registered metric to path in the
// Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
