package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Step modes used as the "mode" label
const (
	ModeBarnesHut  = "barnes_hut"
	ModeBruteForce = "brute_force"
)

// Run outcomes used as the "outcome" label
const (
	OutcomeConverged     = "converged"
	OutcomeMaxIterations = "max_iterations"
	OutcomeCancelled     = "cancelled"
	OutcomeFailed        = "failed"
)

// Registry holds all metrics for the layout engine
type Registry struct {
	// Layout Metrics
	LayoutStepsTotal    *prometheus.CounterVec
	LayoutStepDuration  *prometheus.HistogramVec
	LayoutEntities      prometheus.Gauge
	LayoutEdges         prometheus.Gauge
	LayoutOctreeNodes   prometheus.Gauge
	LayoutMaxVelocity   prometheus.Gauge
	LayoutErrorsTotal   *prometheus.CounterVec
	LayoutRunsTotal     *prometheus.CounterVec
	LayoutRunIterations prometheus.Histogram

	// Grid Metrics
	GridEntities        prometheus.Gauge
	GridQueriesTotal    *prometheus.CounterVec
	GridQueryCandidates prometheus.Histogram

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initLayoutMetrics()
	r.initGridMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
