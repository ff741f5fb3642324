package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// PageRankResult contains PageRank scores for all accounts
type PageRankResult struct {
	Scores     map[string]float64 // account id -> score
	Iterations int
	TopNodes   []RankedNode
}

// PageRank ranks accounts by power iteration over the account view.
//
// Every round computes (1-d)/N + d * sum(score(u)/outdeg(u)) for the
// distinct in-neighbours u of each account, into a second buffer. The round
// count is fixed; there is no convergence test, so cost and output depend
// only on the snapshot and options. Dangling accounts leak their mass,
// which means the scores sum to 1 only when every account has an out-hop.
func PageRank(ctx context.Context, snap *graph.Snapshot, opts PageRankOptions) (*PageRankResult, error) {
	opts = opts.normalized()
	view := snap.AccountView()
	n := view.Len()

	if n == 0 {
		return &PageRankResult{
			Scores:   make(map[string]float64),
			TopNodes: []RankedNode{},
		}, nil
	}

	scores := make([]float64, n)
	next := make([]float64, n)
	initial := 1.0 / float64(n)
	for i := range scores {
		scores[i] = initial
	}

	outDegree := make([]float64, n)
	for i := 0; i < n; i++ {
		outDegree[i] = float64(max(1, len(view.Out(i))))
	}

	teleport := (1.0 - opts.DampingFactor) / float64(n)
	for iter := 0; iter < opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for v := 0; v < n; v++ {
			sum := 0.0
			for _, u := range view.In(v) {
				sum += scores[u] / outDegree[u]
			}
			next[v] = teleport + opts.DampingFactor*sum
		}

		scores, next = next, scores
	}

	result := make(map[string]float64, n)
	for i, score := range scores {
		result[view.ID(i)] = score
	}

	return &PageRankResult{
		Scores:     result,
		Iterations: opts.Iterations,
		TopNodes:   TopN(result, DefaultTopN),
	}, nil
}

// GetNodeRank returns the score of one account, 0 if unknown
func (pr *PageRankResult) GetNodeRank(id string) float64 {
	return pr.Scores[id]
}

// GetTopNodes returns up to n of the precomputed top accounts
func (pr *PageRankResult) GetTopNodes(n int) []RankedNode {
	if n > len(pr.TopNodes) {
		return pr.TopNodes
	}
	return pr.TopNodes[:n]
}
