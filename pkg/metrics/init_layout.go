package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutStepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_steps_total",
			Help: "Total number of simulation steps",
		},
		[]string{"mode"},
	)

	r.LayoutStepDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layout_step_duration_seconds",
			Help:    "Simulation step duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 100us .. ~3.3s
		},
		[]string{"mode"},
	)

	r.LayoutEntities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_entities",
			Help: "Entities in the most recent step",
		},
	)

	r.LayoutEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_edges",
			Help: "Edges in the most recent step",
		},
	)

	r.LayoutOctreeNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_octree_nodes",
			Help: "Octree nodes built by the most recent Barnes-Hut step",
		},
	)

	r.LayoutMaxVelocity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_max_velocity",
			Help: "Largest entity speed after the most recent step",
		},
	)

	r.LayoutErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_errors_total",
			Help: "Total number of rejected layout operations",
		},
		[]string{"operation"},
	)

	r.LayoutRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_runs_total",
			Help: "Total number of multi-step runs by outcome",
		},
		[]string{"outcome"},
	)

	r.LayoutRunIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layout_run_iterations",
			Help:    "Steps taken per run",
			Buckets: []float64{1, 10, 50, 100, 200, 300, 500, 1000},
		},
	)
}
