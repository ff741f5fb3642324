package analytics

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
)

// State is the lifecycle of an analytics pass
type State int32

const (
	StateIdle State = iota
	StateComputing
	StateDone
	StatePartial // done, but at least one section failed and was defaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputing:
		return "computing"
	case StateDone:
		return "done"
	case StatePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON reports
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Section names one independently computed part of a pass
type Section string

const (
	SectionPageRank    Section = "pagerank"
	SectionBetweenness Section = "betweenness"
	SectionCloseness   Section = "closeness"
	SectionClustering  Section = "clustering"
	SectionCommunity   Section = "community"
	SectionCycles      Section = "cycles"
	SectionComponents  Section = "components"
)

// Sections lists every section in execution order
var Sections = []Section{
	SectionPageRank,
	SectionBetweenness,
	SectionCloseness,
	SectionClustering,
	SectionCommunity,
	SectionCycles,
	SectionComponents,
}

// NodeMetrics is the per-account record consumed by renderers for sizing,
// colouring and filtering
type NodeMetrics struct {
	ID                    string  `json:"id"`
	Degree                int     `json:"degree"`
	InDegree              int     `json:"in_degree"`
	OutDegree             int     `json:"out_degree"`
	PageRank              float64 `json:"page_rank"`
	Betweenness           float64 `json:"betweenness"`
	Closeness             float64 `json:"closeness"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	TotalVolume           float64 `json:"total_volume"`
	AvgTransactionSize    float64 `json:"avg_transaction_size"`
	TransactionCount      int     `json:"transaction_count"`
	Community             int     `json:"community"` // cluster id, -1 when isolated
}

// GraphMetrics summarises the account view of a snapshot
type GraphMetrics struct {
	NodeCount             int                     `json:"node_count"`
	EdgeCount             int                     `json:"edge_count"`
	TransactionCount      int                     `json:"transaction_count"`
	Density               float64                 `json:"density"`
	AverageDegree         float64                 `json:"average_degree"`
	ClusteringCoefficient float64                 `json:"clustering_coefficient"`
	ComponentCount        int                     `json:"component_count"`
	TotalVolume           float64                 `json:"total_volume"`
	SkippedEdges          int                     `json:"skipped_edges"`
	TopByPageRank         []algorithms.RankedNode `json:"top_by_page_rank"`
	TopByBetweenness      []algorithms.RankedNode `json:"top_by_betweenness"`
	TopByVolume           []algorithms.RankedNode `json:"top_by_volume"`
}

// Report is the output of one pass
type Report struct {
	RunID     string                      `json:"run_id"`
	State     State                       `json:"state"`
	Complete  bool                        `json:"complete"`
	Failures  map[Section]error           `json:"-"`
	Graph     GraphMetrics                `json:"graph"`
	Nodes     map[string]*NodeMetrics     `json:"nodes"`
	Clusters  *algorithms.ClusterAnalysis `json:"clusters"`
	Cycles    []*algorithms.WashCycle     `json:"cycles"`
	StartedAt time.Time                   `json:"started_at"`
	Duration  time.Duration               `json:"duration_ns"`
}

// Node returns the metrics of one account
func (r *Report) Node(id string) (*NodeMetrics, bool) {
	nm, ok := r.Nodes[id]
	return nm, ok
}

// FailedSections returns the failed sections in execution order
func (r *Report) FailedSections() []Section {
	var failed []Section
	for _, s := range Sections {
		if _, ok := r.Failures[s]; ok {
			failed = append(failed, s)
		}
	}
	return failed
}

// FailureMessages renders failures for serialisation
func (r *Report) FailureMessages() map[string]string {
	out := make(map[string]string, len(r.Failures))
	for s, err := range r.Failures {
		out[string(s)] = err.Error()
	}
	return out
}

// SortedNodes returns node metrics ordered by id
func (r *Report) SortedNodes() []*NodeMetrics {
	nodes := make([]*NodeMetrics, 0, len(r.Nodes))
	for _, nm := range r.Nodes {
		nodes = append(nodes, nm)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}
