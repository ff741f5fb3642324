package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// SCCResult holds strongly connected components of the account view.
// Component ids are assigned in the order Tarjan's DFS completes them.
type SCCResult struct {
	*ComponentResult
	Largest        *Component
	SingletonCount int

	// index-aligned with the account view
	byIndex []int
}

// tarjanState holds per-account state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
	visited bool
}

// StronglyConnectedComponents finds all SCCs of the directed account view
// using Tarjan's algorithm in O(V+E) time.
func StronglyConnectedComponents(ctx context.Context, snap *graph.Snapshot) (*SCCResult, error) {
	return stronglyConnected(ctx, snap.AccountView())
}

func stronglyConnected(ctx context.Context, view *graph.AccountView) (*SCCResult, error) {
	n := view.Len()
	state := make([]tarjanState, n)
	byIndex := make([]int, n)
	stack := make([]int, 0)
	indexCounter := 0
	components := make([]*Component, 0)
	nodeComponent := make(map[string]int, n)

	var strongconnect func(u int)
	strongconnect = func(u int) {
		state[u] = tarjanState{index: indexCounter, lowlink: indexCounter, onStack: true, visited: true}
		indexCounter++
		stack = append(stack, u)

		for _, v := range view.Out(u) {
			if !state[v].visited {
				strongconnect(v)
				state[u].lowlink = min(state[u].lowlink, state[v].lowlink)
			} else if state[v].onStack {
				state[u].lowlink = min(state[u].lowlink, state[v].index)
			}
		}

		// u is a root: pop its component
		if state[u].lowlink == state[u].index {
			c := &Component{ID: len(components)}
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				byIndex[w] = c.ID
				nodeComponent[view.ID(w)] = c.ID
				c.Members = append(c.Members, view.ID(w))
				if w == u {
					break
				}
			}
			components = append(components, c)
		}
	}

	for u := 0; u < n; u++ {
		if state[u].visited {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strongconnect(u)
	}

	var largest *Component
	singletons := 0
	for _, c := range components {
		if len(c.Members) == 1 {
			singletons++
		}
		if largest == nil || len(c.Members) > len(largest.Members) {
			largest = c
		}
	}

	return &SCCResult{
		ComponentResult: &ComponentResult{Components: components, NodeComponent: nodeComponent},
		Largest:         largest,
		SingletonCount:  singletons,
		byIndex:         byIndex,
	}, nil
}

// size returns the member count of the component holding view index i.
func (r *SCCResult) size(i int) int {
	return len(r.Components[r.byIndex[i]].Members)
}
