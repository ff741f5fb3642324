package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// ConnectedComponents finds weakly connected components of the account
// view. Component ids follow snapshot order of their first member.
func ConnectedComponents(ctx context.Context, snap *graph.Snapshot) (*ComponentResult, error) {
	view := snap.AccountView()
	n := view.Len()

	visited := make([]bool, n)
	nodeComponent := make(map[string]int, n)
	components := make([]*Component, 0)
	queue := make([]int, 0, n)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		component := &Component{ID: len(components)}
		visited[start] = true
		queue = append(queue[:0], start)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			component.Members = append(component.Members, view.ID(v))
			nodeComponent[view.ID(v)] = component.ID

			for _, w := range view.Neighbors(v) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}

		components = append(components, component)
	}

	return &ComponentResult{Components: components, NodeComponent: nodeComponent}, nil
}

// Count returns the number of components
func (r *ComponentResult) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Components)
}
