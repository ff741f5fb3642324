package algorithms

// Defaults for bounded computations. Every algorithm runs a fixed amount of
// work so that a pass has predictable cost on any snapshot.
const (
	DefaultDampingFactor       = 0.85
	DefaultPageRankIterations  = 20
	DefaultBetweennessSamples  = 50
	DefaultCommunityIterations = 10
	DefaultPathMaxDepth        = 5
	DefaultPathMaxPaths        = 10
	DefaultCycleMaxDepth       = 6
	DefaultMaxCycles           = 1000
)

// PageRankOptions configures PageRank
type PageRankOptions struct {
	DampingFactor float64
	Iterations    int // fixed; convergence is not checked
}

// DefaultPageRankOptions returns the default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: DefaultDampingFactor,
		Iterations:    DefaultPageRankIterations,
	}
}

func (o PageRankOptions) normalized() PageRankOptions {
	if o.DampingFactor < 0 || o.DampingFactor > 1 {
		o.DampingFactor = DefaultDampingFactor
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultPageRankIterations
	}
	return o
}

// BetweennessOptions configures sampled betweenness centrality
type BetweennessOptions struct {
	SampleSize int
	// Seed for source sampling. 0 seeds from the clock, which makes results
	// vary between runs whenever the sample is smaller than the graph.
	Seed int64
}

// DefaultBetweennessOptions returns the default sampling configuration
func DefaultBetweennessOptions() BetweennessOptions {
	return BetweennessOptions{SampleSize: DefaultBetweennessSamples}
}

// CommunityOptions configures label propagation
type CommunityOptions struct {
	Iterations int
}

// DefaultCommunityOptions returns the default label propagation configuration
func DefaultCommunityOptions() CommunityOptions {
	return CommunityOptions{Iterations: DefaultCommunityIterations}
}

// PathOptions bounds all-paths enumeration
type PathOptions struct {
	MaxDepth int // hops
	MaxPaths int
}

// DefaultPathOptions returns the default enumeration caps
func DefaultPathOptions() PathOptions {
	return PathOptions{MaxDepth: DefaultPathMaxDepth, MaxPaths: DefaultPathMaxPaths}
}

func (o PathOptions) normalized() PathOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultPathMaxDepth
	}
	if o.MaxPaths <= 0 {
		o.MaxPaths = DefaultPathMaxPaths
	}
	return o
}

// CycleOptions bounds wash-trading cycle enumeration
type CycleOptions struct {
	MaxDepth  int // maximum cycle length
	MaxCycles int // keep this many distinct cycles, most severe first
}

// DefaultCycleOptions returns the default cycle search bounds
func DefaultCycleOptions() CycleOptions {
	return CycleOptions{MaxDepth: DefaultCycleMaxDepth, MaxCycles: DefaultMaxCycles}
}

func (o CycleOptions) normalized() CycleOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultCycleMaxDepth
	}
	if o.MaxCycles <= 0 {
		o.MaxCycles = DefaultMaxCycles
	}
	return o
}
