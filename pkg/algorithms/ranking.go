package algorithms

import (
	"container/heap"
	"sort"
)

// DefaultTopN is the length of the ranked lists in reports
const DefaultTopN = 10

// RankedNode is an account with a score
type RankedNode struct {
	NodeID string  `json:"node_id"`
	Score  float64 `json:"score"`
}

// rankedNodeHeap is a min-heap on score. For equal scores the larger id is
// "smaller" so that it is evicted first and lower ids win ties.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].NodeID > h[j].NodeID
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopN returns the n highest scores, descending, ties broken by id.
// O(len(scores) log n).
func TopN(scores map[string]float64, n int) []RankedNode {
	if n <= 0 || len(scores) == 0 {
		return []RankedNode{}
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for id, score := range scores {
		rn := RankedNode{NodeID: id, Score: score}
		if h.Len() < n {
			heap.Push(&h, rn)
			continue
		}
		if rankedBefore(rn, h[0]) {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return rankedBefore(result[i], result[j])
	})
	return result
}

// rankedBefore orders by score descending, then id ascending
func rankedBefore(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.NodeID < b.NodeID
}
