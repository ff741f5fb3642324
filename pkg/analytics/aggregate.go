package analytics

import (
	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// buildNodeMetrics assembles one record per account. Degrees and volume
// come from the raw incident edges, so transaction connectors count.
func buildNodeMetrics(snap *graph.Snapshot, res *results) map[string]*NodeMetrics {
	view := snap.AccountView()
	nodes := make(map[string]*NodeMetrics, view.Len())

	for _, id := range view.IDs() {
		edges := snap.IncidentEdges(id)
		volume := 0.0
		for _, e := range edges {
			volume += e.Amount
		}

		community := -1
		if cid, ok := res.clusters.NodeCluster[id]; ok {
			community = cid
		}

		nodes[id] = &NodeMetrics{
			ID:                    id,
			Degree:                snap.Degree(id),
			InDegree:              snap.InDegree(id),
			OutDegree:             snap.OutDegree(id),
			PageRank:              res.pageRank.Scores[id],
			Betweenness:           res.betweenness.Scores[id],
			Closeness:             res.closeness[id],
			ClusteringCoefficient: res.clustering[id],
			TotalVolume:           volume,
			AvgTransactionSize:    volume / float64(max(1, len(edges))),
			TransactionCount:      len(edges),
			Community:             community,
		}
	}
	return nodes
}

// buildGraphMetrics summarises the account view. Density counts distinct
// directed account pairs against N(N-1) possible ones.
func buildGraphMetrics(snap *graph.Snapshot, res *results, nodes map[string]*NodeMetrics, topN int) GraphMetrics {
	view := snap.AccountView()
	n := view.Len()
	pairs := view.PairCount()

	gm := GraphMetrics{
		NodeCount:             n,
		EdgeCount:             pairs,
		TransactionCount:      len(snap.NodesMatching(graph.IsTransaction)),
		ClusteringCoefficient: algorithms.AverageClustering(res.clustering),
		ComponentCount:        res.components.Count(),
		TotalVolume:           snap.TotalVolume(),
		SkippedEdges:          len(snap.SkippedEdges()),
	}
	if n > 1 {
		gm.Density = float64(pairs) / float64(n*(n-1))
	}
	if n > 0 {
		gm.AverageDegree = 2 * float64(pairs) / float64(n)
	}

	if topN <= 0 {
		topN = algorithms.DefaultTopN
	}
	volumes := make(map[string]float64, len(nodes))
	for id, nm := range nodes {
		volumes[id] = nm.TotalVolume
	}
	gm.TopByPageRank = algorithms.TopN(res.pageRank.Scores, topN)
	gm.TopByBetweenness = algorithms.TopN(res.betweenness.Scores, topN)
	gm.TopByVolume = algorithms.TopN(volumes, topN)
	return gm
}
