package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGridMetrics() {
	r.GridEntities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_grid_entities",
			Help: "Entities tracked by the spatial hash grid",
		},
	)

	r.GridQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "layout_grid_queries_total",
			Help: "Total number of spatial grid queries",
		},
		[]string{"kind"},
	)

	r.GridQueryCandidates = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "layout_grid_query_candidates",
			Help:    "Entities distance-checked per grid query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
}
