package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.LayoutStepsTotal == nil {
		t.Error("LayoutStepsTotal not initialized")
	}
	if r.LayoutStepDuration == nil {
		t.Error("LayoutStepDuration not initialized")
	}
	if r.GridQueriesTotal == nil {
		t.Error("GridQueriesTotal not initialized")
	}
	if r.UptimeSeconds == nil {
		t.Error("UptimeSeconds not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestRecordStep(t *testing.T) {
	r := NewRegistry()

	r.RecordStep(ModeBruteForce, 2*time.Millisecond, 10, 4, 0, 0.5)
	r.RecordStep(ModeBarnesHut, 5*time.Millisecond, 500, 30, 812, 0.25)
	r.RecordStep(ModeBarnesHut, 4*time.Millisecond, 500, 30, 790, 0.125)

	if got := counterValue(t, r.LayoutStepsTotal, ModeBarnesHut); got != 2 {
		t.Errorf("barnes_hut steps = %v, want 2", got)
	}
	if got := counterValue(t, r.LayoutStepsTotal, ModeBruteForce); got != 1 {
		t.Errorf("brute_force steps = %v, want 1", got)
	}

	tests := []struct {
		name     string
		gauge    prometheus.Gauge
		expected float64
	}{
		{"LayoutEntities", r.LayoutEntities, 500},
		{"LayoutEdges", r.LayoutEdges, 30},
		{"LayoutOctreeNodes", r.LayoutOctreeNodes, 790},
		{"LayoutMaxVelocity", r.LayoutMaxVelocity, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gaugeValue(t, tt.gauge); got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestRecordStep_BruteForceKeepsOctreeGauge(t *testing.T) {
	r := NewRegistry()
	r.RecordStep(ModeBarnesHut, time.Millisecond, 200, 0, 321, 0)
	r.RecordStep(ModeBruteForce, time.Millisecond, 20, 0, 0, 0)

	if got := gaugeValue(t, r.LayoutOctreeNodes); got != 321 {
		t.Errorf("LayoutOctreeNodes = %v, want 321", got)
	}
}

func TestStepDurationHistogram(t *testing.T) {
	r := NewRegistry()

	r.RecordStep(ModeBruteForce, 100*time.Millisecond, 1, 0, 0, 0)
	r.RecordStep(ModeBruteForce, 200*time.Millisecond, 1, 0, 0, 0)
	r.RecordStep(ModeBruteForce, 150*time.Millisecond, 1, 0, 0, 0)

	observer, err := r.LayoutStepDuration.GetMetricWithLabelValues(ModeBruteForce)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := observer.(prometheus.Metric).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Sample count = %v, want 3", metric.Histogram.GetSampleCount())
	}

	// Sum should be approximately 0.45 (0.1 + 0.2 + 0.15)
	sum := metric.Histogram.GetSampleSum()
	if sum < 0.44 || sum > 0.46 {
		t.Errorf("Sample sum = %v, want ~0.45", sum)
	}
}

func TestRecordErrorAndRun(t *testing.T) {
	r := NewRegistry()

	r.RecordError("step")
	r.RecordError("step")
	r.RecordRun(OutcomeConverged, 42)
	r.RecordRun(OutcomeCancelled, 3)

	if got := counterValue(t, r.LayoutErrorsTotal, "step"); got != 2 {
		t.Errorf("errors{step} = %v, want 2", got)
	}
	if got := counterValue(t, r.LayoutRunsTotal, OutcomeConverged); got != 1 {
		t.Errorf("runs{converged} = %v, want 1", got)
	}

	var metric dto.Metric
	if err := r.LayoutRunIterations.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleSum() != 45 {
		t.Errorf("run iterations sum = %v, want 45", metric.Histogram.GetSampleSum())
	}
}

func TestGridMetrics(t *testing.T) {
	r := NewRegistry()

	r.SetGridEntities(17)
	r.RecordGridQuery("neighbors", 5)
	r.RecordGridQuery("position", 2)
	r.RecordGridQuery("neighbors", 9)

	if got := gaugeValue(t, r.GridEntities); got != 17 {
		t.Errorf("GridEntities = %v, want 17", got)
	}
	if got := counterValue(t, r.GridQueriesTotal, "neighbors"); got != 2 {
		t.Errorf("grid queries{neighbors} = %v, want 2", got)
	}

	var metric dto.Metric
	if err := r.GridQueryCandidates.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 || metric.Histogram.GetSampleSum() != 16 {
		t.Errorf("candidates count=%v sum=%v, want 3 and 16",
			metric.Histogram.GetSampleCount(), metric.Histogram.GetSampleSum())
	}
}

func TestSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics(time.Now().Add(-time.Minute))

	if got := gaugeValue(t, r.UptimeSeconds); got < 60 {
		t.Errorf("UptimeSeconds = %v, want >= 60", got)
	}
	if got := gaugeValue(t, r.GoRoutines); got < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", got)
	}
	if got := gaugeValue(t, r.MemorySysBytes); got <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", got)
	}
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.RecordStep(ModeBruteForce, time.Millisecond, 1, 0, 0, 0)
	r.RecordError("step")
	r.RecordRun(OutcomeFailed, 0)
	r.RecordGridQuery("neighbors", 0)
	r.SetGridEntities(0)
	r.UpdateSystemMetrics(time.Now())
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordStep(ModeBarnesHut, time.Millisecond, 100, 10, 50, 0.1)
			}
		}()
	}
	wg.Wait()

	if got := counterValue(t, r.LayoutStepsTotal, ModeBarnesHut); got != 1000 {
		t.Errorf("Counter = %v, want 1000", got)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordStep(ModeBruteForce, time.Millisecond, 1, 0, 0, 0)
	r.RecordError("step")
	r.RecordRun(OutcomeConverged, 1)
	r.RecordGridQuery("neighbors", 1)

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metrics) == 0 {
		t.Fatal("Gather() returned no metrics")
	}

	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "layout_") {
			t.Errorf("Metric %s does not have layout_ prefix", name)
		}
	}
}

func BenchmarkRecordStep(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordStep(ModeBarnesHut, time.Millisecond, 1000, 100, 2000, 0.1)
	}
}
