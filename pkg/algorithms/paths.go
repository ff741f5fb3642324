package algorithms

import (
	"context"
	"sort"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// Path is a directed walk through the full graph, transactions included
type Path struct {
	Nodes       []string      `json:"nodes"`
	Edges       []*graph.Edge `json:"-"`
	Hops        int           `json:"hops"`
	TotalAmount float64       `json:"total_amount"`
	Signatures  []string      `json:"signatures"` // distinct, first-seen order
}

// EdgeIDs returns the ids of the path's edges in order
func (p *Path) EdgeIDs() []string {
	ids := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		ids[i] = e.ID
	}
	return ids
}

// ShortestPath finds a fewest-hops path from one node to another by BFS
// over outgoing edges. Where parallel edges join two nodes the earliest
// inserted one is used. Returns nil if either endpoint is absent or the
// target is unreachable.
func ShortestPath(ctx context.Context, snap *graph.Snapshot, from, to string) (*Path, error) {
	if !snap.HasNode(from) || !snap.HasNode(to) {
		return nil, nil
	}
	if from == to {
		return newPath(snap, []string{from}, nil), nil
	}

	parent := map[string]*graph.Edge{from: nil}
	queue := []string{from}

	for head := 0; head < len(queue); head++ {
		if head%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		current := queue[head]
		for _, nb := range snap.NeighborsOut(current) {
			if _, seen := parent[nb.NodeID]; seen {
				continue
			}
			parent[nb.NodeID] = nb.Edge
			if nb.NodeID == to {
				return reconstructPath(snap, parent, to), nil
			}
			queue = append(queue, nb.NodeID)
		}
	}

	return nil, nil
}

func reconstructPath(snap *graph.Snapshot, parent map[string]*graph.Edge, to string) *Path {
	nodes := []string{to}
	edges := make([]*graph.Edge, 0)
	for e := parent[to]; e != nil; e = parent[e.Source] {
		edges = append(edges, e)
		nodes = append(nodes, e.Source)
	}

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return newPath(snap, nodes, edges)
}

// AllPaths enumerates simple paths from one node to another with at most
// opts.MaxDepth hops, stopping after opts.MaxPaths paths.
//
// Enumeration is iterative deepening: all paths of one hop, then two, and
// so on, so the paths returned are always the shortest available ones and
// come out sorted by hop count. A node already on the current path is never
// revisited, which guarantees termination on cyclic graphs. Parallel edges
// between the same pair do not produce extra paths.
func AllPaths(ctx context.Context, snap *graph.Snapshot, from, to string, opts PathOptions) ([]*Path, error) {
	opts = opts.normalized()
	paths := make([]*Path, 0)

	if !snap.HasNode(from) || !snap.HasNode(to) {
		return paths, nil
	}
	if from == to {
		return append(paths, newPath(snap, []string{from}, nil)), nil
	}

	e := &pathEnumerator{
		ctx:    ctx,
		snap:   snap,
		target: to,
		limit:  opts.MaxPaths,
		onPath: map[string]bool{from: true},
		nodes:  []string{from},
	}

	for budget := 1; budget <= opts.MaxDepth && len(e.found) < e.limit; budget++ {
		e.budget = budget
		if err := e.walk(from); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(e.found, func(i, j int) bool {
		return e.found[i].Hops < e.found[j].Hops
	})
	return e.found, nil
}

type pathEnumerator struct {
	ctx    context.Context
	snap   *graph.Snapshot
	target string
	limit  int
	budget int

	onPath map[string]bool
	nodes  []string
	edges  []*graph.Edge
	found  []*Path
	steps  int
}

// walk extends the current path from node; only paths of exactly budget
// hops are recorded so that each deepening round adds new paths only.
func (e *pathEnumerator) walk(node string) error {
	e.steps++
	if e.steps%1024 == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}

	depth := len(e.edges)
	tried := make(map[string]bool)

	for _, nb := range e.snap.NeighborsOut(node) {
		if len(e.found) >= e.limit {
			return nil
		}
		next := nb.NodeID
		if tried[next] || e.onPath[next] {
			continue
		}
		tried[next] = true

		if next == e.target {
			if depth+1 == e.budget {
				nodes := append(append([]string{}, e.nodes...), next)
				edges := append(append([]*graph.Edge{}, e.edges...), nb.Edge)
				e.found = append(e.found, newPath(e.snap, nodes, edges))
			}
			continue
		}
		if depth+1 >= e.budget {
			continue
		}

		e.onPath[next] = true
		e.nodes = append(e.nodes, next)
		e.edges = append(e.edges, nb.Edge)

		err := e.walk(next)

		e.edges = e.edges[:len(e.edges)-1]
		e.nodes = e.nodes[:len(e.nodes)-1]
		delete(e.onPath, next)

		if err != nil {
			return err
		}
	}

	return nil
}

func newPath(snap *graph.Snapshot, nodes []string, edges []*graph.Edge) *Path {
	p := &Path{
		Nodes:      nodes,
		Edges:      edges,
		Hops:       len(edges),
		Signatures: make([]string, 0),
	}
	if p.Edges == nil {
		p.Edges = []*graph.Edge{}
	}

	seen := make(map[string]bool)
	addSignature := func(sig string) {
		if sig != "" && !seen[sig] {
			seen[sig] = true
			p.Signatures = append(p.Signatures, sig)
		}
	}

	for i, id := range nodes {
		if node, ok := snap.Node(id); ok && node.Kind == graph.KindTransaction {
			addSignature(id)
		}
		if i < len(edges) {
			p.TotalAmount += edges[i].Amount
			addSignature(edges[i].Signature)
		}
	}

	return p
}
