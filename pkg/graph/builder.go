package graph

import (
	"math"

	"github.com/dd0wney/cluso-txgraph/pkg/logging"
)

// Builder collects nodes and edges before a pass. It is the only way to
// mutate graph data; Build freezes the result into a Snapshot.
type Builder struct {
	nodes     []*Node
	nodeIndex map[string]int
	edges     []*Edge
	edgeIDs   map[string]struct{}
	logger    logging.Logger
	built     bool
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithLogger sets the logger used for data-quality warnings
func WithLogger(logger logging.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates an empty builder
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		nodeIndex: make(map[string]int),
		edgeIDs:   make(map[string]struct{}),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBuilderFrom seeds a builder with every node and valid edge of an
// existing snapshot so the caller can extend it for the next pass.
func NewBuilderFrom(s *Snapshot, opts ...BuilderOption) *Builder {
	b := NewBuilder(opts...)
	for _, n := range s.nodes {
		// ids in a snapshot are already unique
		_ = b.AddNode(*n)
	}
	for _, e := range s.edges {
		_ = b.AddEdge(*e)
	}
	return b
}

// AddNode registers a node. Attributes are shallow-copied.
func (b *Builder) AddNode(n Node) error {
	if b.built {
		return nodeError("AddNode", n.ID, ErrBuilderClosed)
	}
	if n.ID == "" {
		return nodeError("AddNode", "", ErrEmptyID)
	}
	if _, exists := b.nodeIndex[n.ID]; exists {
		return nodeError("AddNode", n.ID, ErrDuplicateNode)
	}

	node := &Node{ID: n.ID, Kind: n.Kind}
	if len(n.Attributes) > 0 {
		node.Attributes = make(map[string]any, len(n.Attributes))
		for k, v := range n.Attributes {
			node.Attributes[k] = v
		}
	}

	b.nodeIndex[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, node)
	return nil
}

// AddAccount is shorthand for AddNode with KindAccount
func (b *Builder) AddAccount(id string) error {
	return b.AddNode(Node{ID: id, Kind: KindAccount})
}

// AddTransaction is shorthand for AddNode with KindTransaction
func (b *Builder) AddTransaction(id string) error {
	return b.AddNode(Node{ID: id, Kind: KindTransaction})
}

// AddEdge registers an edge. Endpoints are checked at Build time so nodes
// and edges may arrive in any order.
func (b *Builder) AddEdge(e Edge) error {
	if b.built {
		return edgeError("AddEdge", e.ID, ErrBuilderClosed)
	}
	if e.ID == "" {
		return edgeError("AddEdge", "", ErrEmptyID)
	}
	if _, exists := b.edgeIDs[e.ID]; exists {
		return edgeError("AddEdge", e.ID, ErrDuplicateEdge)
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return edgeError("AddEdge", e.ID, ErrInvalidAmount)
	}
	if e.Amount < 0 {
		return edgeError("AddEdge", e.ID, ErrNegativeAmount)
	}

	edge := e
	if e.Timestamp != nil {
		ts := *e.Timestamp
		edge.Timestamp = &ts
	}

	b.edgeIDs[e.ID] = struct{}{}
	b.edges = append(b.edges, &edge)
	return nil
}

// Transfer adds a plain account-to-account transfer edge
func (b *Builder) Transfer(id, from, to string, amount float64) error {
	return b.AddEdge(Edge{ID: id, Source: from, Target: to, Amount: amount})
}

// NodeCount returns the number of nodes added so far
func (b *Builder) NodeCount() int {
	return len(b.nodes)
}

// Build freezes the builder into a Snapshot. Edges whose endpoints are
// missing are skipped and reported as data-quality warnings.
func (b *Builder) Build() *Snapshot {
	b.built = true

	s := &Snapshot{
		nodes:     b.nodes,
		nodeIndex: b.nodeIndex,
		edges:     make([]*Edge, 0, len(b.edges)),
		out:       make(map[string][]Neighbor, len(b.nodes)),
		in:        make(map[string][]Neighbor, len(b.nodes)),
		between:   make(map[pairKey][]*Edge, len(b.edges)),
	}

	for _, e := range b.edges {
		_, srcOK := b.nodeIndex[e.Source]
		_, dstOK := b.nodeIndex[e.Target]
		if !srcOK || !dstOK {
			s.skipped = append(s.skipped, e)
			b.logger.Warn("skipping edge with missing endpoint",
				logging.EdgeID(e.ID),
				logging.String("source", e.Source),
				logging.String("target", e.Target),
				logging.Bool("source_found", srcOK),
				logging.Bool("target_found", dstOK),
			)
			continue
		}

		s.edges = append(s.edges, e)
		s.out[e.Source] = append(s.out[e.Source], Neighbor{Edge: e, NodeID: e.Target})
		s.in[e.Target] = append(s.in[e.Target], Neighbor{Edge: e, NodeID: e.Source})
		key := pairKey{from: e.Source, to: e.Target}
		s.between[key] = append(s.between[key], e)
	}

	return s
}
