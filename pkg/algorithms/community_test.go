package algorithms

import (
	"context"
	"testing"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoTriangles builds two tight groups {A,B,C} and {D,E,F} with transfers
// both ways inside each, joined by one C->D transfer.
func twoTriangles(t *testing.T) *graph.Snapshot {
	t.Helper()

	transfers := make([]transfer, 0)
	for _, group := range [][]string{{"A", "B", "C"}, {"D", "E", "F"}} {
		for i := range group {
			for j := range group {
				if i != j {
					transfers = append(transfers, transfer{group[i], group[j], 100})
				}
			}
		}
	}
	transfers = append(transfers, transfer{"C", "D", 1})

	return newTestSnapshot(t, []string{"A", "B", "C", "D", "E", "F"}, transfers...)
}

func TestLabelPropagation_EmptyGraph(t *testing.T) {
	result, err := LabelPropagation(context.Background(), graph.Empty(), DefaultCommunityOptions())
	require.NoError(t, err)
	assert.Empty(t, result.Labels)
	assert.Zero(t, result.Rounds)

	analysis, err := AnalyzeClusters(context.Background(), graph.Empty(), result)
	require.NoError(t, err)
	assert.Empty(t, analysis.Clusters)
	assert.Empty(t, analysis.IsolatedNodes)
	assert.Zero(t, analysis.Stats.Modularity)
}

func TestLabelPropagation_TriangleScenario(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C"},
		transfer{"A", "B", 5},
		transfer{"B", "C", 5},
		transfer{"C", "A", 5},
	)

	result, err := LabelPropagation(context.Background(), snap, DefaultCommunityOptions())
	require.NoError(t, err)
	assert.True(t, result.Stable)
	assert.Equal(t, result.Labels["A"], result.Labels["B"])
	assert.Equal(t, result.Labels["B"], result.Labels["C"])

	analysis, err := AnalyzeClusters(context.Background(), snap, result)
	require.NoError(t, err)
	require.Len(t, analysis.Clusters, 1)

	cluster := analysis.Clusters[0]
	assert.Equal(t, 3, cluster.Size)
	assert.Equal(t, []string{"A", "B", "C"}, cluster.Members)
	assert.Equal(t, 3, cluster.InternalEdges)
	assert.Zero(t, cluster.ExternalEdges)
	assert.InDelta(t, 0.5, cluster.Density, 1e-12)
	assert.InDelta(t, 15.0, cluster.TotalVolume, 1e-12)
	assert.Equal(t, "A", cluster.CenterNode, "equal degrees resolve to snapshot order")
	// semi-dense 15 + small cluster 20 + insular 25
	assert.Equal(t, 60, cluster.RiskScore)
	assert.Empty(t, analysis.IsolatedNodes)
	assert.Empty(t, analysis.BridgeNodes)
}

func TestLabelPropagation_SeparatesGroupsAndFindsBridges(t *testing.T) {
	snap := twoTriangles(t)

	result, err := LabelPropagation(context.Background(), snap, DefaultCommunityOptions())
	require.NoError(t, err)

	analysis, err := AnalyzeClusters(context.Background(), snap, result)
	require.NoError(t, err)
	require.Len(t, analysis.Clusters, 2)

	first, second := analysis.Clusters[0], analysis.Clusters[1]
	assert.Equal(t, []string{"A", "B", "C"}, first.Members)
	assert.Equal(t, []string{"D", "E", "F"}, second.Members)
	assert.Equal(t, 6, first.InternalEdges)
	assert.Equal(t, 1, first.ExternalEdges)
	assert.Equal(t, 1, second.ExternalEdges)
	assert.InDelta(t, 1.0, first.Density, 1e-12)
	assert.Equal(t, "C", first.CenterNode)
	assert.Equal(t, "D", second.CenterNode)

	bridges := make([]string, 0)
	for _, b := range analysis.BridgeNodes {
		bridges = append(bridges, b.NodeID)
		assert.Equal(t, []int{0, 1}, b.Clusters)
	}
	assert.Equal(t, []string{"C", "D"}, bridges)

	assert.Equal(t, 2, analysis.Stats.ClusterCount)
	assert.Equal(t, 2, analysis.Stats.BridgeCount)
	assert.Equal(t, 3, analysis.Stats.LargestCluster)
	assert.InDelta(t, 3.0, analysis.Stats.AverageSize, 1e-12)
	assert.Greater(t, analysis.Stats.Modularity, 0.4)
	assert.Equal(t, 0, analysis.NodeCluster["B"])
	assert.Equal(t, 1, analysis.NodeCluster["F"])
}

func TestLabelPropagation_Deterministic(t *testing.T) {
	ids := accountIDs("w", 40)
	transfers := ring(ids, 3)
	for i := 0; i < len(ids); i += 3 {
		transfers = append(transfers, transfer{ids[i], ids[(i+5)%len(ids)], 1})
	}
	snap := newTestSnapshot(t, ids, transfers...)

	first, err := LabelPropagation(context.Background(), snap, DefaultCommunityOptions())
	require.NoError(t, err)
	second, err := LabelPropagation(context.Background(), snap, DefaultCommunityOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.LessOrEqual(t, first.Rounds, DefaultCommunityIterations)
}

func TestAnalyzeClusters_IsolatedAccounts(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "Solo"},
		transfer{"A", "B", 1},
		transfer{"B", "A", 1},
	)

	result, err := LabelPropagation(context.Background(), snap, DefaultCommunityOptions())
	require.NoError(t, err)
	analysis, err := AnalyzeClusters(context.Background(), snap, result)
	require.NoError(t, err)

	require.Len(t, analysis.Clusters, 1)
	assert.Equal(t, []string{"Solo"}, analysis.IsolatedNodes)
	assert.Equal(t, 1, analysis.Stats.IsolatedCount)
	_, clustered := analysis.NodeCluster["Solo"]
	assert.False(t, clustered)
}

func TestClusterRiskScore_Capped(t *testing.T) {
	c := &Cluster{Size: 5, Density: 0.9, InternalEdges: 20, ExternalEdges: 1, TotalVolume: 5_000_000}
	assert.Equal(t, MaxClusterRisk, clusterRiskScore(c))

	quiet := &Cluster{Size: 40, Density: 0.05, InternalEdges: 10, ExternalEdges: 30, TotalVolume: 10}
	assert.Equal(t, riskLargeClusterPoints, clusterRiskScore(quiet))
}

func TestClusterDensity_Guards(t *testing.T) {
	assert.Zero(t, clusterDensity(3, 1))
	assert.Zero(t, clusterDensity(0, 0))
	assert.Equal(t, 1.0, clusterDensity(50, 3))
}

func TestConnectedComponents(t *testing.T) {
	snap := newTestSnapshot(t, []string{"A", "B", "C", "D", "E"},
		transfer{"A", "B", 1},
		transfer{"C", "B", 1},
		transfer{"D", "E", 1},
	)

	result, err := ConnectedComponents(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count())
	assert.Equal(t, []string{"A", "B", "C"}, result.Components[0].Members)
	assert.Equal(t, result.NodeComponent["D"], result.NodeComponent["E"])

	empty, err := ConnectedComponents(context.Background(), graph.Empty())
	require.NoError(t, err)
	assert.Zero(t, empty.Count())
}
