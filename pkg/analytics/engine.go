// Package analytics runs every graph algorithm over a snapshot once and
// assembles per-account and graph-level metrics.
package analytics

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/config"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
	"github.com/dd0wney/cluso-txgraph/pkg/metrics"
	"github.com/dd0wney/cluso-txgraph/pkg/parallel"
)

// Engine computes analytics reports. An Engine holds no per-snapshot state
// between passes, so callers cache reports themselves.
type Engine struct {
	cfg     config.Engine
	logger  logging.Logger
	metrics *metrics.Registry
	workers int
	state   atomic.Int32

	// wrap lets tests replace a section body
	wrap func(Section, func(context.Context) error) func(context.Context) error
}

// NewEngine validates cfg and returns an idle engine
func NewEngine(cfg config.Engine, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logging.NewNopLogger(),
		workers: cfg.Workers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	e.logger = e.logger.With(logging.Component("analytics"))
	return e, nil
}

// State returns the state of the most recent pass
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Config returns the engine configuration
func (e *Engine) Config() config.Engine {
	return e.cfg
}

// results holds one slot per section. Each task writes only its own slot.
type results struct {
	pageRank    *algorithms.PageRankResult
	betweenness *algorithms.BetweennessResult
	closeness   map[string]float64
	clustering  map[string]float64
	communities *algorithms.CommunityResult
	clusters    *algorithms.ClusterAnalysis
	cycles      []*algorithms.WashCycle
	components  *algorithms.ComponentResult
}

// Compute runs one pass. It never fails: a section that errors or panics is
// recorded in Report.Failures, defaulted to empty, and the report is marked
// partial. A nil snapshot is treated as empty.
func (e *Engine) Compute(ctx context.Context, snap *graph.Snapshot) *Report {
	if snap == nil {
		snap = graph.Empty()
	}

	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Failures:  make(map[Section]error),
	}
	logger := e.logger.With(logging.RunID(report.RunID))

	e.state.Store(int32(StateComputing))
	if e.metrics != nil {
		e.metrics.PassStarted()
	}
	timer := logging.StartTimer(logger, "analytics pass",
		logging.Int("nodes", snap.NodeCount()),
		logging.Int("edges", snap.EdgeCount()))

	res := &results{}
	durations := e.runSections(ctx, snap, res, report, logger)
	res.fillDefaults()

	report.Nodes = buildNodeMetrics(snap, res)
	report.Graph = buildGraphMetrics(snap, res, report.Nodes, e.cfg.TopN)
	report.Clusters = res.clusters
	report.Cycles = res.cycles

	report.Complete = len(report.Failures) == 0
	report.State = StateDone
	if !report.Complete {
		report.State = StatePartial
	}
	report.Duration = timer.Elapsed()
	e.state.Store(int32(report.State))

	if report.Complete {
		timer.EndInfo(logging.String("state", report.State.String()))
	} else {
		timer.EndError(fmt.Errorf("%d sections failed", len(report.Failures)),
			logging.String("state", report.State.String()))
	}
	e.record(snap, report, durations)
	return report
}

// runSections executes every section on a worker pool and stores failures
// in the report. It returns the wall time of each section.
func (e *Engine) runSections(ctx context.Context, snap *graph.Snapshot, res *results, report *Report, logger logging.Logger) map[Section]time.Duration {
	var (
		mu        sync.Mutex
		durations = make(map[Section]time.Duration, len(Sections))
	)

	bodies := e.sectionBodies(snap, res)
	tasks := make([]parallel.Task, 0, len(Sections))
	for _, section := range Sections {
		body := bodies[section]
		if e.wrap != nil {
			body = e.wrap(section, body)
		}
		tasks = append(tasks, parallel.Task{
			Name: string(section),
			Run: func(ctx context.Context) error {
				start := time.Now()
				defer func() {
					mu.Lock()
					durations[section] = time.Since(start)
					mu.Unlock()
				}()
				return body(ctx)
			},
		})
	}

	pool, err := parallel.NewWorkerPool(min(e.workers, len(tasks)), logger)
	if err != nil {
		logger.Warn("worker pool unavailable, running sections inline", logging.Error(err))
	}
	errs := parallel.RunTasks(ctx, pool, tasks)
	if pool != nil {
		pool.Close()
	}

	for _, section := range Sections {
		err, failed := errs[string(section)]
		if !failed {
			continue
		}
		report.Failures[section] = err
		res.reset(section)
		logger.Error("section failed, defaulting to empty",
			logging.Section(string(section)),
			logging.Error(err))
	}
	return durations
}

func (e *Engine) sectionBodies(snap *graph.Snapshot, res *results) map[Section]func(context.Context) error {
	cfg := e.cfg
	return map[Section]func(context.Context) error{
		SectionPageRank: func(ctx context.Context) (err error) {
			res.pageRank, err = algorithms.PageRank(ctx, snap, algorithms.PageRankOptions{
				DampingFactor: cfg.PageRank.DampingFactor,
				Iterations:    cfg.PageRank.Iterations,
			})
			return err
		},
		SectionBetweenness: func(ctx context.Context) (err error) {
			res.betweenness, err = algorithms.BetweennessCentrality(ctx, snap, algorithms.BetweennessOptions{
				SampleSize: cfg.Betweenness.SampleSize,
				Seed:       cfg.Betweenness.Seed,
			})
			return err
		},
		SectionCloseness: func(ctx context.Context) (err error) {
			res.closeness, err = algorithms.ClosenessCentrality(ctx, snap)
			return err
		},
		SectionClustering: func(ctx context.Context) (err error) {
			res.clustering, err = algorithms.ClusteringCoefficients(ctx, snap)
			return err
		},
		SectionCommunity: func(ctx context.Context) error {
			communities, err := algorithms.LabelPropagation(ctx, snap, algorithms.CommunityOptions{
				Iterations: cfg.Community.Iterations,
			})
			if err != nil {
				return err
			}
			clusters, err := algorithms.AnalyzeClusters(ctx, snap, communities)
			if err != nil {
				return fmt.Errorf("analyze clusters: %w", err)
			}
			res.communities, res.clusters = communities, clusters
			return nil
		},
		SectionCycles: func(ctx context.Context) (err error) {
			res.cycles, err = algorithms.DetectWashTrading(ctx, snap, algorithms.CycleOptions{
				MaxDepth:  cfg.Cycles.MaxDepth,
				MaxCycles: cfg.Cycles.MaxCycles,
			})
			return err
		},
		SectionComponents: func(ctx context.Context) (err error) {
			res.components, err = algorithms.ConnectedComponents(ctx, snap)
			return err
		},
	}
}

// reset discards whatever a failed section may have written
func (r *results) reset(section Section) {
	switch section {
	case SectionPageRank:
		r.pageRank = nil
	case SectionBetweenness:
		r.betweenness = nil
	case SectionCloseness:
		r.closeness = nil
	case SectionClustering:
		r.clustering = nil
	case SectionCommunity:
		r.communities, r.clusters = nil, nil
	case SectionCycles:
		r.cycles = nil
	case SectionComponents:
		r.components = nil
	}
}

// fillDefaults replaces missing slots with empty results
func (r *results) fillDefaults() {
	if r.pageRank == nil {
		r.pageRank = &algorithms.PageRankResult{Scores: map[string]float64{}, TopNodes: []algorithms.RankedNode{}}
	}
	if r.betweenness == nil {
		r.betweenness = &algorithms.BetweennessResult{Scores: map[string]float64{}, TopNodes: []algorithms.RankedNode{}}
	}
	if r.closeness == nil {
		r.closeness = map[string]float64{}
	}
	if r.clustering == nil {
		r.clustering = map[string]float64{}
	}
	if r.communities == nil {
		r.communities = &algorithms.CommunityResult{Labels: map[string]int{}}
	}
	if r.clusters == nil {
		r.clusters = algorithms.EmptyClusterAnalysis()
	}
	if r.cycles == nil {
		r.cycles = []*algorithms.WashCycle{}
	}
	if r.components == nil {
		r.components = &algorithms.ComponentResult{Components: []*algorithms.Component{}, NodeComponent: map[string]int{}}
	}
}

func (e *Engine) record(snap *graph.Snapshot, report *Report, durations map[Section]time.Duration) {
	if e.metrics == nil {
		return
	}

	for _, section := range Sections {
		_, failed := report.Failures[section]
		e.metrics.RecordSection(string(section), durations[section], failed)
	}

	byRisk := make(map[string]int)
	for _, c := range report.Cycles {
		byRisk[string(c.RiskLevel)]++
	}
	e.metrics.RecordFindings(byRisk, len(report.Clusters.Clusters), len(report.Clusters.BridgeNodes))

	accounts := report.Graph.NodeCount
	e.metrics.RecordSnapshot(accounts, snap.NodeCount()-accounts, snap.EdgeCount(), len(snap.SkippedEdges()))
	e.metrics.RecordPass(report.State.String(), report.Duration)
}
