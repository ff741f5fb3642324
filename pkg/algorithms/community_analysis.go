package algorithms

import (
	"context"
	"sort"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// Cluster risk heuristic. Each signal adds a fixed number of points and the
// total is capped at MaxClusterRisk.
const (
	MaxClusterRisk = 100

	riskDenseThreshold     = 0.5
	riskDensePoints        = 30
	riskSemiDenseThreshold = 0.3
	riskSemiDensePoints    = 15

	riskSmallClusterMin    = 3
	riskSmallClusterMax    = 10
	riskSmallClusterPoints = 20
	riskLargeClusterPoints = 10

	riskInsularPoints = 25

	riskHighVolume       = 1_000_000
	riskHighVolumePoints = 25
	riskMidVolume        = 100_000
	riskMidVolumePoints  = 15
)

// AnalyzeClusters turns label propagation output into clusters, isolated
// accounts and bridge accounts. Labels of size one are reported as isolated
// rather than as clusters.
func AnalyzeClusters(ctx context.Context, snap *graph.Snapshot, communities *CommunityResult) (*ClusterAnalysis, error) {
	view := snap.AccountView()
	n := view.Len()
	analysis := EmptyClusterAnalysis()
	if n == 0 || communities == nil {
		return analysis, nil
	}

	labels := make([]int, n)
	groups := make(map[int][]int)
	order := make([]int, 0)
	for i := 0; i < n; i++ {
		label, ok := communities.Labels[view.ID(i)]
		if !ok {
			label = -1 - i // unlabelled accounts stay alone
		}
		labels[i] = label
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}

	clusterOf := make([]int, n)
	for i := range clusterOf {
		clusterOf[i] = -1
	}

	for _, label := range order {
		members := groups[label]
		if len(members) < 2 {
			analysis.IsolatedNodes = append(analysis.IsolatedNodes, view.ID(members[0]))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cluster := buildCluster(snap, view, len(analysis.Clusters), members, clusterOf)
		analysis.Clusters = append(analysis.Clusters, cluster)
	}

	// hop counts need every membership assigned first
	for _, cluster := range analysis.Clusters {
		countClusterEdges(view, cluster, clusterOf)
		cluster.Density = clusterDensity(cluster.InternalEdges, cluster.Size)
		cluster.RiskScore = clusterRiskScore(cluster)
		for _, id := range cluster.Members {
			analysis.NodeCluster[id] = cluster.ID
		}
	}

	analysis.BridgeNodes = findBridgeNodes(view, clusterOf)
	analysis.Stats = clusterStats(analysis, modularity(view, labels))

	return analysis, nil
}

func buildCluster(snap *graph.Snapshot, view *graph.AccountView, id int, members []int, clusterOf []int) *Cluster {
	cluster := &Cluster{
		ID:      id,
		Members: make([]string, 0, len(members)),
		Size:    len(members),
	}

	seenEdges := make(map[string]struct{})
	bestDegree := -1
	for _, m := range members {
		clusterOf[m] = id
		memberID := view.ID(m)
		cluster.Members = append(cluster.Members, memberID)

		if degree := snap.Degree(memberID); degree > bestDegree {
			bestDegree = degree
			cluster.CenterNode = memberID
		}

		for _, e := range snap.IncidentEdges(memberID) {
			if _, dup := seenEdges[e.ID]; dup {
				continue
			}
			seenEdges[e.ID] = struct{}{}
			cluster.TotalVolume += e.Amount
		}
	}

	return cluster
}

func countClusterEdges(view *graph.AccountView, cluster *Cluster, clusterOf []int) {
	for _, memberID := range cluster.Members {
		m, _ := view.Index(memberID)
		for _, w := range view.Out(m) {
			hops := view.Count(m, w)
			if clusterOf[w] == cluster.ID {
				cluster.InternalEdges += hops
			} else {
				cluster.ExternalEdges += hops
			}
		}
		for _, w := range view.In(m) {
			if clusterOf[w] != cluster.ID {
				cluster.ExternalEdges += view.Count(w, m)
			}
		}
	}
}

// clusterDensity is internal hops over ordered member pairs. Parallel hops
// can push the ratio past 1, so it is capped.
func clusterDensity(internal, size int) float64 {
	possible := size * (size - 1)
	if possible <= 0 {
		return 0
	}
	density := float64(internal) / float64(possible)
	if density > 1 {
		return 1
	}
	return density
}

func clusterRiskScore(c *Cluster) int {
	score := 0

	switch {
	case c.Density > riskDenseThreshold:
		score += riskDensePoints
	case c.Density > riskSemiDenseThreshold:
		score += riskSemiDensePoints
	}

	switch {
	case c.Size >= riskSmallClusterMin && c.Size <= riskSmallClusterMax:
		score += riskSmallClusterPoints
	case c.Size > riskSmallClusterMax:
		score += riskLargeClusterPoints
	}

	// few ways in or out of a busy group
	if c.InternalEdges > 0 && float64(c.ExternalEdges) < float64(c.InternalEdges)/2 {
		score += riskInsularPoints
	}

	switch {
	case c.TotalVolume >= riskHighVolume:
		score += riskHighVolumePoints
	case c.TotalVolume >= riskMidVolume:
		score += riskMidVolumePoints
	}

	return min(score, MaxClusterRisk)
}

func findBridgeNodes(view *graph.AccountView, clusterOf []int) []*BridgeNode {
	bridges := make([]*BridgeNode, 0)
	for v := 0; v < view.Len(); v++ {
		spanned := make(map[int]struct{})
		if clusterOf[v] >= 0 {
			spanned[clusterOf[v]] = struct{}{}
		}
		for _, u := range view.Neighbors(v) {
			if clusterOf[u] >= 0 {
				spanned[clusterOf[u]] = struct{}{}
			}
		}
		if len(spanned) < 2 {
			continue
		}
		bridges = append(bridges, &BridgeNode{NodeID: view.ID(v), Clusters: sortedKeySlice(spanned)})
	}
	return bridges
}

// modularity computes Newman modularity of a labelling on the undirected
// account view, with hop counts in both directions as pair weights.
func modularity(view *graph.AccountView, labels []int) float64 {
	n := view.Len()
	degree := make([]float64, n)
	total := 0.0
	internal := make(map[int]float64)

	for v := 0; v < n; v++ {
		for _, u := range view.Neighbors(v) {
			if u <= v {
				continue
			}
			w := float64(view.Count(v, u) + view.Count(u, v))
			total += w
			degree[v] += w
			degree[u] += w
			if labels[v] == labels[u] {
				internal[labels[v]] += w
			}
		}
	}
	if total == 0 {
		return 0
	}

	labelDegree := make(map[int]float64)
	for v := 0; v < n; v++ {
		labelDegree[labels[v]] += degree[v]
	}

	q := 0.0
	for label, d := range labelDegree {
		share := d / (2 * total)
		q += internal[label]/total - share*share
	}
	return q
}

func clusterStats(a *ClusterAnalysis, q float64) ClusterStats {
	stats := ClusterStats{
		ClusterCount:  len(a.Clusters),
		IsolatedCount: len(a.IsolatedNodes),
		BridgeCount:   len(a.BridgeNodes),
		Modularity:    q,
	}
	members := 0
	for _, c := range a.Clusters {
		members += c.Size
		if c.Size > stats.LargestCluster {
			stats.LargestCluster = c.Size
		}
	}
	if stats.ClusterCount > 0 {
		stats.AverageSize = float64(members) / float64(stats.ClusterCount)
	}
	return stats
}

func sortedKeySlice(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
