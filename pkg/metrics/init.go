package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "txgraph"

// sectionBuckets cover sub-millisecond modules on small graphs up to
// multi-second cycle searches
var sectionBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0}

func (r *Registry) initPassMetrics() {
	r.PassesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Analysis passes by terminal state",
		},
		[]string{"state"},
	)

	r.PassDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a full analysis pass",
			Buckets:   sectionBuckets,
		},
	)

	r.PassesRunning = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "passes_running",
			Help:      "Analysis passes currently computing",
		},
	)

	r.SectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_duration_seconds",
			Help:      "Wall time of one module within a pass",
			Buckets:   sectionBuckets,
		},
		[]string{"section"},
	)

	r.SectionFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_failures_total",
			Help:      "Modules that failed and were defaulted to empty",
		},
		[]string{"section"},
	)
}

func (r *Registry) initSnapshotMetrics() {
	r.SnapshotAccounts = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_accounts",
			Help:      "Account nodes in the last analysed snapshot",
		},
	)

	r.SnapshotTransactions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_transactions",
			Help:      "Transaction nodes in the last analysed snapshot",
		},
	)

	r.SnapshotEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_edges",
			Help:      "Valid edges in the last analysed snapshot",
		},
	)

	r.SkippedEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_edges_total",
			Help:      "Edges dropped because an endpoint was missing",
		},
	)
}

func (r *Registry) initFindingMetrics() {
	r.CyclesDetected = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cycles_detected",
			Help:      "Wash-trading cycles found in the last pass by risk level",
		},
		[]string{"risk_level"},
	)

	r.ClustersFound = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clusters_found",
			Help:      "Clusters of two or more accounts in the last pass",
		},
	)

	r.BridgeNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bridge_nodes",
			Help:      "Accounts spanning several clusters in the last pass",
		},
	)

	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_queries_total",
			Help:      "Path queries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
}

func (r *Registry) initSystemMetrics() {
	r.GoRoutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Number of goroutines",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Bytes of allocated heap objects",
		},
	)
}
