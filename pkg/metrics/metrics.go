package metrics

import (
	"runtime"
	"time"
)

// Record methods are no-ops on a nil *Registry so callers can leave
// metrics unconfigured.

// RecordStep records one simulation step
func (r *Registry) RecordStep(mode string, duration time.Duration, entities, edges, octreeNodes int, maxVelocity float64) {
	if r == nil {
		return
	}
	r.LayoutStepsTotal.WithLabelValues(mode).Inc()
	r.LayoutStepDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.LayoutEntities.Set(float64(entities))
	r.LayoutEdges.Set(float64(edges))
	if mode == ModeBarnesHut {
		r.LayoutOctreeNodes.Set(float64(octreeNodes))
	}
	r.LayoutMaxVelocity.Set(maxVelocity)
}

// RecordError counts a rejected operation
func (r *Registry) RecordError(operation string) {
	if r == nil {
		return
	}
	r.LayoutErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordRun records the outcome of a multi-step run
func (r *Registry) RecordRun(outcome string, iterations int) {
	if r == nil {
		return
	}
	r.LayoutRunsTotal.WithLabelValues(outcome).Inc()
	r.LayoutRunIterations.Observe(float64(iterations))
}

// RecordGridQuery records a neighbor query and how many entities it examined
func (r *Registry) RecordGridQuery(kind string, candidates int) {
	if r == nil {
		return
	}
	r.GridQueriesTotal.WithLabelValues(kind).Inc()
	r.GridQueryCandidates.Observe(float64(candidates))
}

// SetGridEntities sets the number of entities tracked by the grid
func (r *Registry) SetGridEntities(n int) {
	if r == nil {
		return
	}
	r.GridEntities.Set(float64(n))
}

// UpdateSystemMetrics refreshes the process gauges
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	if r == nil {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
