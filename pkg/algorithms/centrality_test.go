package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetweenness_EmptyGraph(t *testing.T) {
	result, err := BetweennessCentrality(context.Background(), graph.Empty(), DefaultBetweennessOptions())
	require.NoError(t, err)
	assert.Empty(t, result.Scores)
	assert.Zero(t, result.Sampled)
}

func TestBetweenness_ChainMiddleIsMax(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C"},
		transfer{"A", "B", 1},
		transfer{"B", "C", 1},
	)

	result, err := BetweennessCentrality(context.Background(), snap, DefaultBetweennessOptions())
	require.NoError(t, err)

	assert.True(t, result.Exact, "sample covers the whole graph")
	assert.Equal(t, 3, result.Sampled)
	assert.InDelta(t, 1.0, result.Scores["B"], 1e-12)
	assert.Zero(t, result.Scores["A"])
	assert.Zero(t, result.Scores["C"])
	assert.Equal(t, "B", result.TopNodes[0].NodeID)
}

func TestBetweenness_SplitsAcrossShortestPaths(t *testing.T) {
	// S reaches T through M1 or M2; each carries half of the S-T paths
	snap := newTestSnapshot(t, []string{"S", "M1", "M2", "T"},
		transfer{"S", "M1", 1},
		transfer{"S", "M2", 1},
		transfer{"M1", "T", 1},
		transfer{"M2", "T", 1},
	)

	result, err := BetweennessCentrality(context.Background(), snap, DefaultBetweennessOptions())
	require.NoError(t, err)

	assert.InDelta(t, result.Scores["M1"], result.Scores["M2"], 1e-12)
	assert.InDelta(t, result.Scores["S"], result.Scores["T"], 1e-12)
	assert.InDelta(t, 1.0, math.Max(result.Scores["M1"], result.Scores["S"]), 1e-12)
}

func TestBetweenness_NoPathsAllZero(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B"}, transfer{"A", "B", 1})

	result, err := BetweennessCentrality(context.Background(), snap, DefaultBetweennessOptions())
	require.NoError(t, err)
	for id, score := range result.Scores {
		assert.Zerof(t, score, "score of %s", id)
	}
}

func TestBetweenness_SeededSampleIsReproducible(t *testing.T) {
	ids := accountIDs("acct", 120)
	transfers := ring(ids, 1)
	for i := 0; i < len(ids); i += 7 {
		transfers = append(transfers, transfer{ids[i], ids[(i*3+11)%len(ids)], 2})
	}
	snap := newTestSnapshot(t, ids, transfers...)

	opts := BetweennessOptions{SampleSize: 20, Seed: 42}
	first, err := BetweennessCentrality(context.Background(), snap, opts)
	require.NoError(t, err)
	second, err := BetweennessCentrality(context.Background(), snap, opts)
	require.NoError(t, err)

	assert.False(t, first.Exact)
	assert.Equal(t, 20, first.Sampled)
	assert.Equal(t, first.Scores, second.Scores)
	for _, score := range first.Scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestSampleSources(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, sampleSources(3, 50, 0))

	picked := sampleSources(100, 10, 7)
	assert.Len(t, picked, 10)
	seen := make(map[int]bool)
	for _, p := range picked {
		assert.False(t, seen[p], "sources are distinct")
		seen[p] = true
	}
}

func TestCloseness(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C", "Lonely"},
		transfer{"A", "B", 1},
		transfer{"B", "C", 1},
	)

	closeness, err := ClosenessCentrality(context.Background(), snap)
	require.NoError(t, err)

	// B reaches A and C at distance 1: 2/2
	assert.InDelta(t, 1.0, closeness["B"], 1e-12)
	// A reaches B (1) and C (2): 2/3
	assert.InDelta(t, 2.0/3.0, closeness["A"], 1e-12)
	assert.Zero(t, closeness["Lonely"])
}

func TestCloseness_EmptyGraph(t *testing.T) {
	closeness, err := ClosenessCentrality(context.Background(), graph.Empty())
	require.NoError(t, err)
	assert.Empty(t, closeness)
}

func TestClusteringCoefficients(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C", "Hub", "L1", "L2", "L3"},
		// triangle
		transfer{"A", "B", 1},
		transfer{"B", "C", 1},
		transfer{"C", "A", 1},
		transfer{"C", "A", 1},
		// star
		transfer{"Hub", "L1", 1},
		transfer{"Hub", "L2", 1},
		transfer{"L3", "Hub", 1},
		transfer{"L1", "L2", 1},
	)

	coeffs, err := ClusteringCoefficients(context.Background(), snap)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, coeffs["A"], 1e-12, "parallel hops are counted once")
	assert.InDelta(t, 1.0, coeffs["C"], 1e-12)
	// Hub has 3 neighbours and one linked pair (L1-L2)
	assert.InDelta(t, 1.0/3.0, coeffs["Hub"], 1e-12)
	assert.Zero(t, coeffs["L3"], "fewer than two neighbours")

	for id, c := range coeffs {
		assert.GreaterOrEqualf(t, c, 0.0, "coefficient of %s", id)
		assert.LessOrEqualf(t, c, 1.0, "coefficient of %s", id)
	}
}

func TestAverageClustering(t *testing.T) {
	assert.Zero(t, AverageClustering(nil))
	assert.InDelta(t, 0.5, AverageClustering(map[string]float64{"a": 1, "b": 0}), 1e-12)
}
