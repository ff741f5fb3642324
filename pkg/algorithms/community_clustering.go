package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// ClusteringCoefficients computes the local clustering coefficient of every
// account: the fraction of pairs of its distinct neighbours (either
// direction) that are themselves connected. Accounts with fewer than two
// neighbours score 0.
func ClusteringCoefficients(ctx context.Context, snap *graph.Snapshot) (map[string]float64, error) {
	view := snap.AccountView()
	n := view.Len()
	coefficients := make(map[string]float64, n)

	for v := 0; v < n; v++ {
		if v%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		neighbors := view.Neighbors(v)
		k := len(neighbors)
		if k < 2 {
			coefficients[view.ID(v)] = 0.0
			continue
		}

		// each unordered pair once, regardless of how many hops or which
		// direction connects it
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if view.Connected(neighbors[i], neighbors[j]) {
					links++
				}
			}
		}

		possible := k * (k - 1) / 2
		coefficients[view.ID(v)] = float64(links) / float64(possible)
	}

	return coefficients, nil
}

// AverageClustering averages per-account coefficients, 0 for none
func AverageClustering(coefficients map[string]float64) float64 {
	if len(coefficients) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, c := range coefficients {
		sum += c
	}
	return sum / float64(len(coefficients))
}
