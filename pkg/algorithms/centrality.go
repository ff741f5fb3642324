package algorithms

import (
	"context"
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// BetweennessResult holds sampled betweenness scores.
//
// The scores approximate betweenness from a random subset of BFS sources
// and are min-max normalised by the largest value. They are meant for
// relative ranking (sizing and highlighting) and are not exact betweenness
// unless Exact is set.
type BetweennessResult struct {
	Scores   map[string]float64
	Sampled  int  // number of BFS sources used
	Exact    bool // every account was a source
	TopNodes []RankedNode
}

// BetweennessCentrality estimates how often each account lies on shortest
// paths between other accounts, using Brandes accumulation from up to
// opts.SampleSize sources over the undirected account view.
func BetweennessCentrality(ctx context.Context, snap *graph.Snapshot, opts BetweennessOptions) (*BetweennessResult, error) {
	view := snap.AccountView()
	n := view.Len()
	if n == 0 {
		return &BetweennessResult{Scores: make(map[string]float64), TopNodes: []RankedNode{}}, nil
	}

	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultBetweennessSamples
	}
	sources := sampleSources(n, sampleSize, opts.Seed)

	acc := make([]float64, n)

	// scratch buffers reused across sources
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		stack = stack[:0]
		queue = append(queue[:0], s)
		sigma[s] = 1
		dist[s] = 0

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)
			for _, w := range view.Neighbors(v) {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// delta(v) sums sigma_st(v)/sigma_st over all targets t, i.e. one
		// 1/sigma_st share for each shortest s-t path through v
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != s {
				acc[w] += delta[w]
			}
		}
	}

	maxScore := 0.0
	for _, v := range acc {
		if v > maxScore {
			maxScore = v
		}
	}
	divisor := maxScore
	if divisor <= 0 {
		divisor = 1
	}

	scores := make(map[string]float64, n)
	for i, v := range acc {
		scores[view.ID(i)] = v / divisor
	}

	return &BetweennessResult{
		Scores:   scores,
		Sampled:  len(sources),
		Exact:    len(sources) == n,
		TopNodes: TopN(scores, DefaultTopN),
	}, nil
}

// sampleSources picks min(n, k) distinct indices uniformly at random. When
// the sample covers the graph every index is returned in order.
func sampleSources(n, k int, seed int64) []int {
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return rng.Perm(n)[:k]
}

// ClosenessCentrality computes (reachable-1)/sum(distances) for every
// account by BFS over the undirected account view. Accounts that reach
// nothing score 0. Values lie in [0,1].
func ClosenessCentrality(ctx context.Context, snap *graph.Snapshot) (map[string]float64, error) {
	view := snap.AccountView()
	n := view.Len()
	closeness := make(map[string]float64, n)

	dist := make([]int, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range dist {
			dist[i] = -1
		}
		dist[s] = 0
		queue = append(queue[:0], s)

		totalDistance := 0
		reachable := 1
		for head := 0; head < len(queue); head++ {
			v := queue[head]
			for _, w := range view.Neighbors(v) {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					totalDistance += dist[w]
					reachable++
					queue = append(queue, w)
				}
			}
		}

		if totalDistance > 0 {
			closeness[view.ID(s)] = float64(reachable-1) / float64(totalDistance)
		} else {
			closeness[view.ID(s)] = 0.0
		}
	}

	return closeness, nil
}
