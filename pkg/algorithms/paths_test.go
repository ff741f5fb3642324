package algorithms

import (
	"context"
	"fmt"
	"testing"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPath_Chain(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C", "D"},
		transfer{"A", "B", 1.5},
		transfer{"B", "C", 2},
		transfer{"C", "D", 3},
	)

	path, err := ShortestPath(context.Background(), snap, "A", "D")
	require.NoError(t, err)
	require.NotNil(t, path)

	assert.Equal(t, []string{"A", "B", "C", "D"}, path.Nodes)
	assert.Equal(t, []string{"e0", "e1", "e2"}, path.EdgeIDs())
	assert.Equal(t, 3, path.Hops)
	assert.InDelta(t, 6.5, path.TotalAmount, 1e-12)
}

func TestShortestPath_PrefersFewerHops(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C", "D"},
		transfer{"A", "B", 1},
		transfer{"B", "C", 1},
		transfer{"C", "D", 1},
		transfer{"A", "D", 9},
		transfer{"A", "D", 4},
	)

	path, err := ShortestPath(context.Background(), snap, "A", "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, path.Nodes)
	assert.InDelta(t, 9.0, path.TotalAmount, 1e-12, "first inserted parallel edge is used")
}

func TestShortestPath_NotFound(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C"}, transfer{"A", "B", 1}, transfer{"C", "B", 1})

	tests := []struct {
		name     string
		from, to string
	}{
		{"unreachable", "A", "C"},
		{"against direction", "B", "A"},
		{"missing source", "X", "B"},
		{"missing target", "A", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ShortestPath(context.Background(), snap, tt.from, tt.to)
			require.NoError(t, err)
			assert.Nil(t, path)
		})
	}
}

func TestShortestPath_SameNode(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A"})

	path, err := ShortestPath(context.Background(), snap, "A", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, path.Nodes)
	assert.Zero(t, path.Hops)
	assert.Empty(t, path.Edges)
}

func TestShortestPath_ThroughTransactions(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.AddAccount("A"))
	require.NoError(t, b.AddAccount("B"))
	require.NoError(t, b.AddAccount("C"))
	require.NoError(t, b.AddTransaction("sig1"))
	require.NoError(t, b.Transfer("a-sig1", "A", "sig1", 10))
	require.NoError(t, b.Transfer("sig1-b", "sig1", "B", 10))
	require.NoError(t, b.AddEdge(graph.Edge{ID: "b-c", Source: "B", Target: "C", Amount: 4, Signature: "sig2"}))
	require.NoError(t, b.AddEdge(graph.Edge{ID: "b-c-dup-sig", Source: "C", Target: "A", Amount: 1, Signature: "sig1"}))
	snap := b.Build()

	path, err := ShortestPath(context.Background(), snap, "A", "C")
	require.NoError(t, err)
	require.NotNil(t, path)

	assert.Equal(t, []string{"A", "sig1", "B", "C"}, path.Nodes)
	assert.Equal(t, []string{"sig1", "sig2"}, path.Signatures)
	assert.InDelta(t, 24.0, path.TotalAmount, 1e-12)
}

func TestAllPaths_RespectsMaxPaths(t *testing.T) {
	ids := []string{"A", "B"}
	transfers := make([]transfer, 0, 40)
	for i := 0; i < 20; i++ {
		mid := fmt.Sprintf("M%02d", i)
		ids = append(ids, mid)
		transfers = append(transfers, transfer{"A", mid, 1}, transfer{mid, "B", 1})
	}
	snap := newTestSnapshot(t, ids, transfers...)

	paths, err := AllPaths(context.Background(), snap, "A", "B", PathOptions{MaxDepth: 5, MaxPaths: 10})
	require.NoError(t, err)
	assert.Len(t, paths, 10)

	unlimited, err := AllPaths(context.Background(), snap, "A", "B", PathOptions{MaxDepth: 5, MaxPaths: 100})
	require.NoError(t, err)
	assert.Len(t, unlimited, 20)
}

func TestAllPaths_SortedByHops(t *testing.T) {
	// long route inserted first so plain DFS would find it first
	snap := newTestSnapshot(t, []string{"A", "B", "C", "D", "E"},
		transfer{"A", "B", 1},
		transfer{"B", "C", 1},
		transfer{"C", "D", 1},
		transfer{"D", "E", 1},
		transfer{"A", "C", 1},
		transfer{"A", "E", 1},
	)

	paths, err := AllPaths(context.Background(), snap, "A", "E", DefaultPathOptions())
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, []string{"A", "E"}, paths[0].Nodes)
	assert.Equal(t, []string{"A", "C", "D", "E"}, paths[1].Nodes)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, paths[2].Nodes)

	capped, err := AllPaths(context.Background(), snap, "A", "E", PathOptions{MaxDepth: 5, MaxPaths: 1})
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, 1, capped[0].Hops, "early stop still keeps the shortest path")
}

func TestAllPaths_DepthLimitAndCycles(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G"}
	transfers := make([]transfer, 0)
	for i := 0; i+1 < len(ids); i++ {
		transfers = append(transfers, transfer{ids[i], ids[i+1], 1}, transfer{ids[i+1], ids[i], 1})
	}
	snap := newTestSnapshot(t, ids, transfers...)

	paths, err := AllPaths(context.Background(), snap, "A", "G", PathOptions{MaxDepth: 5, MaxPaths: 10})
	require.NoError(t, err)
	assert.Empty(t, paths, "six hops exceed the depth cap")

	paths, err = AllPaths(context.Background(), snap, "A", "G", PathOptions{MaxDepth: 6, MaxPaths: 10})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, ids, paths[0].Nodes)
}

func TestAllPaths_ParallelEdgesDoNotMultiply(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B"},
		transfer{"A", "B", 1},
		transfer{"A", "B", 2},
	)

	paths, err := AllPaths(context.Background(), snap, "A", "B", DefaultPathOptions())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.InDelta(t, 1.0, paths[0].TotalAmount, 1e-12)
}

func TestAllPaths_MissingEndpoints(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A"})

	paths, err := AllPaths(context.Background(), snap, "A", "nope", DefaultPathOptions())
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = AllPaths(context.Background(), graph.Empty(), "A", "B", DefaultPathOptions())
	require.NoError(t, err)
	assert.Empty(t, paths)
}
