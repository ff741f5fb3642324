package metrics

import (
	"runtime"
	"time"
)

// Risk levels reported on the cycles gauge; kept in sync with the cycle
// detector's classification
var riskLevels = []string{"low", "medium", "high", "critical"}

// PassStarted marks a pass as running
func (r *Registry) PassStarted() {
	r.PassesRunning.Inc()
}

// RecordPass records the end of a pass in the given terminal state
func (r *Registry) RecordPass(state string, duration time.Duration) {
	r.PassesRunning.Dec()
	r.PassesTotal.WithLabelValues(state).Inc()
	r.PassDuration.Observe(duration.Seconds())
}

// RecordSection records one module of a pass
func (r *Registry) RecordSection(section string, duration time.Duration, failed bool) {
	r.SectionDuration.WithLabelValues(section).Observe(duration.Seconds())
	if failed {
		r.SectionFailures.WithLabelValues(section).Inc()
	}
}

// RecordSnapshot records the shape of the analysed snapshot
func (r *Registry) RecordSnapshot(accounts, transactions, edges, skipped int) {
	r.SnapshotAccounts.Set(float64(accounts))
	r.SnapshotTransactions.Set(float64(transactions))
	r.SnapshotEdges.Set(float64(edges))
	r.SkippedEdgesTotal.Add(float64(skipped))
}

// RecordFindings replaces the finding gauges with the latest pass. Risk
// levels missing from byRisk are reset to zero.
func (r *Registry) RecordFindings(byRisk map[string]int, clusters, bridges int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, level := range riskLevels {
		r.CyclesDetected.WithLabelValues(level).Set(float64(byRisk[level]))
	}
	r.ClustersFound.Set(float64(clusters))
	r.BridgeNodes.Set(float64(bridges))
}

// RecordPathQuery counts a path lookup
func (r *Registry) RecordPathQuery(kind string, found bool) {
	outcome := "not_found"
	if found {
		outcome = "found"
	}
	r.PathQueriesTotal.WithLabelValues(kind, outcome).Inc()
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
