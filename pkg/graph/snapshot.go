package graph

import (
	"sync"
	"time"
)

type pairKey struct {
	from, to string
}

// Snapshot is an immutable graph handed to one analysis pass. All lookups
// are map based. Returned slices are shared with the snapshot and must not
// be modified by callers.
//
// A Snapshot is safe for concurrent readers. It has no mutators; extend it
// with NewBuilderFrom for the next pass.
type Snapshot struct {
	nodes     []*Node
	nodeIndex map[string]int
	edges     []*Edge
	skipped   []*Edge

	out     map[string][]Neighbor
	in      map[string][]Neighbor
	between map[pairKey][]*Edge

	viewOnce sync.Once
	view     *AccountView
}

// Empty returns a snapshot with no nodes
func Empty() *Snapshot {
	return NewBuilder().Build()
}

// Node looks up a node by id
func (s *Snapshot) Node(id string) (*Node, bool) {
	idx, ok := s.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return s.nodes[idx], true
}

// HasNode reports whether id exists
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodeIndex[id]
	return ok
}

// Index returns the snapshot-order position of a node
func (s *Snapshot) Index(id string) (int, bool) {
	idx, ok := s.nodeIndex[id]
	return idx, ok
}

// Nodes returns every node in snapshot order
func (s *Snapshot) Nodes() []*Node {
	return s.nodes
}

// Edges returns every valid edge in insertion order
func (s *Snapshot) Edges() []*Edge {
	return s.edges
}

// SkippedEdges returns edges dropped at build time for missing endpoints
func (s *Snapshot) SkippedEdges() []*Edge {
	return s.skipped
}

func (s *Snapshot) NodeCount() int { return len(s.nodes) }
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// NeighborsOut returns outgoing edges of id with their targets
func (s *Snapshot) NeighborsOut(id string) []Neighbor {
	return s.out[id]
}

// NeighborsIn returns incoming edges of id with their sources
func (s *Snapshot) NeighborsIn(id string) []Neighbor {
	return s.in[id]
}

// OutDegree counts outgoing edges, parallel edges included
func (s *Snapshot) OutDegree(id string) int {
	return len(s.out[id])
}

// InDegree counts incoming edges, parallel edges included
func (s *Snapshot) InDegree(id string) int {
	return len(s.in[id])
}

// Degree is InDegree + OutDegree
func (s *Snapshot) Degree(id string) int {
	return len(s.out[id]) + len(s.in[id])
}

// EdgesBetween returns the directed edges from a to b in insertion order
func (s *Snapshot) EdgesBetween(a, b string) []*Edge {
	return s.between[pairKey{from: a, to: b}]
}

// NodesMatching returns the nodes accepted by pred in snapshot order
func (s *Snapshot) NodesMatching(pred func(*Node) bool) []*Node {
	matched := make([]*Node, 0)
	for _, n := range s.nodes {
		if pred(n) {
			matched = append(matched, n)
		}
	}
	return matched
}

// Accounts returns the account nodes in snapshot order
func (s *Snapshot) Accounts() []*Node {
	return s.NodesMatching(IsAccount)
}

// IncidentEdges returns all edges touching id, outgoing first
func (s *Snapshot) IncidentEdges(id string) []*Edge {
	out, in := s.out[id], s.in[id]
	edges := make([]*Edge, 0, len(out)+len(in))
	for _, nb := range out {
		edges = append(edges, nb.Edge)
	}
	for _, nb := range in {
		// a self loop is already listed as outgoing
		if nb.Edge.Source == nb.Edge.Target {
			continue
		}
		edges = append(edges, nb.Edge)
	}
	return edges
}

// TotalVolume sums the amounts of all valid edges
func (s *Snapshot) TotalVolume() float64 {
	total := 0.0
	for _, e := range s.edges {
		total += e.Amount
	}
	return total
}

// Window returns a snapshot restricted to edges whose timestamp falls in
// [from, to]. Zero bounds are open. Edges without a timestamp are always
// visible. All nodes and the skipped edges of s are kept.
func (s *Snapshot) Window(from, to time.Time) *Snapshot {
	b := NewBuilder()
	for _, n := range s.nodes {
		_ = b.AddNode(*n)
	}
	for _, e := range s.edges {
		if e.Timestamp != nil {
			if !from.IsZero() && e.Timestamp.Before(from) {
				continue
			}
			if !to.IsZero() && e.Timestamp.After(to) {
				continue
			}
		}
		_ = b.AddEdge(*e)
	}
	w := b.Build()
	w.skipped = s.skipped
	return w
}

// AccountView returns the account-only projection, built on first use.
func (s *Snapshot) AccountView() *AccountView {
	s.viewOnce.Do(func() {
		s.view = buildAccountView(s)
	})
	return s.view
}
