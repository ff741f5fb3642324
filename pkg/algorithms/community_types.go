package algorithms

// CommunityResult is the raw label assignment from label propagation
type CommunityResult struct {
	Labels map[string]int // account id -> label
	Rounds int            // rounds actually run
	Stable bool           // the last round changed nothing
}

// Cluster is a retained community of two or more accounts
type Cluster struct {
	ID            int      `json:"id"`
	Members       []string `json:"members"`
	Size          int      `json:"size"`
	InternalEdges int      `json:"internal_edges"`
	ExternalEdges int      `json:"external_edges"`
	Density       float64  `json:"density"`
	TotalVolume   float64  `json:"total_volume"`
	CenterNode    string   `json:"center_node"`
	RiskScore     int      `json:"risk_score"`
}

// BridgeNode is an account whose neighbourhood spans several clusters
type BridgeNode struct {
	NodeID   string `json:"node_id"`
	Clusters []int  `json:"clusters"`
}

// ClusterStats summarises a cluster analysis
type ClusterStats struct {
	ClusterCount   int     `json:"cluster_count"`
	IsolatedCount  int     `json:"isolated_count"`
	BridgeCount    int     `json:"bridge_count"`
	LargestCluster int     `json:"largest_cluster"`
	AverageSize    float64 `json:"average_size"`
	Modularity     float64 `json:"modularity"`
}

// ClusterAnalysis is the post-processed community output
type ClusterAnalysis struct {
	Clusters      []*Cluster     `json:"clusters"`
	IsolatedNodes []string       `json:"isolated_nodes"`
	BridgeNodes   []*BridgeNode  `json:"bridge_nodes"`
	Stats         ClusterStats   `json:"stats"`
	NodeCluster   map[string]int `json:"-"` // account id -> cluster id, retained clusters only
}

// EmptyClusterAnalysis is the zero result used for empty graphs and failed
// passes
func EmptyClusterAnalysis() *ClusterAnalysis {
	return &ClusterAnalysis{
		Clusters:      []*Cluster{},
		IsolatedNodes: []string{},
		BridgeNodes:   []*BridgeNode{},
		NodeCluster:   map[string]int{},
	}
}

// Component is a weakly connected set of accounts
type Component struct {
	ID      int
	Members []string
}

// ComponentResult lists weakly connected components of the account view
type ComponentResult struct {
	Components    []*Component
	NodeComponent map[string]int
}
