package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the analytics engine
type Registry struct {
	// Pass metrics
	PassesTotal   *prometheus.CounterVec
	PassDuration  prometheus.Histogram
	PassesRunning prometheus.Gauge

	// Section metrics
	SectionDuration *prometheus.HistogramVec
	SectionFailures *prometheus.CounterVec

	// Snapshot metrics
	SnapshotAccounts     prometheus.Gauge
	SnapshotTransactions prometheus.Gauge
	SnapshotEdges        prometheus.Gauge
	SkippedEdgesTotal    prometheus.Counter

	// Findings
	CyclesDetected   *prometheus.GaugeVec
	ClustersFound    prometheus.Gauge
	BridgeNodes      prometheus.Gauge
	PathQueriesTotal *prometheus.CounterVec

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
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
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initPassMetrics()
	r.initSnapshotMetrics()
	r.initFindingMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
