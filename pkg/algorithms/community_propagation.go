package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// LabelPropagation assigns community labels by bounded label propagation.
//
// Every account starts with its own label (its snapshot index). Each round
// visits accounts in snapshot order and tallies neighbour labels weighted
// by hop count in both directions. An account moves to the best label only
// if that label differs from its own and has strictly more votes; ties
// between best labels go to the lowest label. A round without changes ends
// the loop early.
//
// This is a heuristic without a modularity objective. For a fixed snapshot
// it is deterministic, but updates are applied in place, so reordering
// nodes can change the result.
func LabelPropagation(ctx context.Context, snap *graph.Snapshot, opts CommunityOptions) (*CommunityResult, error) {
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultCommunityIterations
	}

	view := snap.AccountView()
	n := view.Len()

	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	votes := make(map[int]int)
	rounds := 0
	stable := n == 0

	for iter := 0; iter < iterations && n > 0; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++
		changed := false

		for v := 0; v < n; v++ {
			clear(votes)
			for _, u := range view.Neighbors(v) {
				votes[labels[u]] += view.Count(v, u) + view.Count(u, v)
			}
			if len(votes) == 0 {
				continue
			}

			current := labels[v]
			best, bestVotes := current, -1
			for label, count := range votes {
				if count > bestVotes || (count == bestVotes && label < best) {
					best, bestVotes = label, count
				}
			}

			if best != current && bestVotes > votes[current] {
				labels[v] = best
				changed = true
			}
		}

		if !changed {
			stable = true
			break
		}
	}

	result := make(map[string]int, n)
	for i, label := range labels {
		result[view.ID(i)] = label
	}

	return &CommunityResult{Labels: result, Rounds: rounds, Stable: stable}, nil
}
