package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.PassesTotal == nil || r.SectionDuration == nil || r.CyclesDetected == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Fatal("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordPass(t *testing.T) {
	r := NewRegistry()

	r.PassStarted()
	if got := gaugeValue(t, r.PassesRunning); got != 1 {
		t.Errorf("Expected 1 running pass, got %v", got)
	}

	r.RecordPass("done", 20*time.Millisecond)
	r.PassStarted()
	r.RecordPass("partial", 5*time.Millisecond)

	if got := gaugeValue(t, r.PassesRunning); got != 0 {
		t.Errorf("Expected 0 running passes, got %v", got)
	}
	if got := counterValue(t, r.PassesTotal.WithLabelValues("done")); got != 1 {
		t.Errorf("Expected 1 done pass, got %v", got)
	}
	if got := counterValue(t, r.PassesTotal.WithLabelValues("partial")); got != 1 {
		t.Errorf("Expected 1 partial pass, got %v", got)
	}
}

func TestRecordSection(t *testing.T) {
	r := NewRegistry()

	r.RecordSection("pagerank", time.Millisecond, false)
	r.RecordSection("cycles", time.Millisecond, true)

	if got := counterValue(t, r.SectionFailures.WithLabelValues("cycles")); got != 1 {
		t.Errorf("Expected 1 cycles failure, got %v", got)
	}

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "txgraph_section_duration_seconds" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Errorf("Expected 2 section series, got %d", len(mf.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("section duration histogram not gathered")
	}
}

func TestRecordFindings_ResetsMissingLevels(t *testing.T) {
	r := NewRegistry()

	r.RecordFindings(map[string]int{"critical": 2, "low": 1}, 4, 1)
	r.RecordFindings(map[string]int{"high": 3}, 2, 0)

	if got := gaugeValue(t, r.CyclesDetected.WithLabelValues("critical")); got != 0 {
		t.Errorf("Expected critical reset to 0, got %v", got)
	}
	if got := gaugeValue(t, r.CyclesDetected.WithLabelValues("high")); got != 3 {
		t.Errorf("Expected 3 high cycles, got %v", got)
	}
	if got := gaugeValue(t, r.ClustersFound); got != 2 {
		t.Errorf("Expected 2 clusters, got %v", got)
	}
}

func TestRecordSnapshotAndPathQuery(t *testing.T) {
	r := NewRegistry()

	r.RecordSnapshot(10, 4, 20, 2)
	r.RecordSnapshot(10, 4, 20, 1)
	r.RecordPathQuery("shortest", true)
	r.RecordPathQuery("shortest", false)
	r.UpdateSystemMetrics()

	if got := counterValue(t, r.SkippedEdgesTotal); got != 3 {
		t.Errorf("Expected 3 skipped edges, got %v", got)
	}
	if got := gaugeValue(t, r.SnapshotAccounts); got != 10 {
		t.Errorf("Expected 10 accounts, got %v", got)
	}
	if got := counterValue(t, r.PathQueriesTotal.WithLabelValues("shortest", "not_found")); got != 1 {
		t.Errorf("Expected 1 not_found query, got %v", got)
	}
	if got := gaugeValue(t, r.GoRoutines); got <= 0 {
		t.Errorf("Expected goroutines > 0, got %v", got)
	}
}
