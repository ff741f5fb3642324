package graph

import "sort"

// AccountView projects a snapshot onto its account nodes. Accounts are
// addressed by dense indices in snapshot order.
//
// A hop X->Y exists for every direct account edge and for every pair of
// edges X->T, T->Y through a transaction node T with X != Y. Self loops are
// dropped; they carry no structural information for the account metrics.
type AccountView struct {
	ids   []string
	index map[string]int

	out  [][]int // distinct targets, ascending index
	in   [][]int // distinct sources, ascending index
	nbrs [][]int // distinct undirected neighbours, ascending index

	counts  map[[2]int]int
	volumes map[[2]int]float64
	hops    int
}

func buildAccountView(s *Snapshot) *AccountView {
	v := &AccountView{
		index:   make(map[string]int),
		counts:  make(map[[2]int]int),
		volumes: make(map[[2]int]float64),
	}

	for _, n := range s.nodes {
		if n.Kind != KindAccount {
			continue
		}
		v.index[n.ID] = len(v.ids)
		v.ids = append(v.ids, n.ID)
	}

	n := len(v.ids)
	outSet := make([]map[int]struct{}, n)
	inSet := make([]map[int]struct{}, n)

	addHop := func(from, to int, amount float64) {
		if from == to {
			return
		}
		key := [2]int{from, to}
		v.counts[key]++
		v.volumes[key] += amount
		v.hops++
		if outSet[from] == nil {
			outSet[from] = make(map[int]struct{})
		}
		if inSet[to] == nil {
			inSet[to] = make(map[int]struct{})
		}
		outSet[from][to] = struct{}{}
		inSet[to][from] = struct{}{}
	}

	for _, e := range s.edges {
		from, fromOK := v.index[e.Source]
		to, toOK := v.index[e.Target]
		if fromOK && toOK {
			addHop(from, to, e.Amount)
		}
	}

	// transaction connectors
	for _, node := range s.nodes {
		if node.Kind != KindTransaction {
			continue
		}
		for _, inbound := range s.in[node.ID] {
			from, ok := v.index[inbound.NodeID]
			if !ok {
				continue
			}
			for _, outbound := range s.out[node.ID] {
				to, ok := v.index[outbound.NodeID]
				if !ok {
					continue
				}
				addHop(from, to, outbound.Edge.Amount)
			}
		}
	}

	v.out = make([][]int, n)
	v.in = make([][]int, n)
	v.nbrs = make([][]int, n)
	for i := 0; i < n; i++ {
		v.out[i] = sortedKeys(outSet[i])
		v.in[i] = sortedKeys(inSet[i])

		union := make(map[int]struct{}, len(outSet[i])+len(inSet[i]))
		for j := range outSet[i] {
			union[j] = struct{}{}
		}
		for j := range inSet[i] {
			union[j] = struct{}{}
		}
		v.nbrs[i] = sortedKeys(union)
	}

	return v
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the number of accounts
func (v *AccountView) Len() int { return len(v.ids) }

// IDs returns account ids in snapshot order
func (v *AccountView) IDs() []string { return v.ids }

// ID returns the account id at index i
func (v *AccountView) ID(i int) string { return v.ids[i] }

// Index returns the dense index of an account id
func (v *AccountView) Index(id string) (int, bool) {
	i, ok := v.index[id]
	return i, ok
}

// Out returns the distinct hop targets of account i
func (v *AccountView) Out(i int) []int { return v.out[i] }

// In returns the distinct hop sources of account i
func (v *AccountView) In(i int) []int { return v.in[i] }

// Neighbors returns distinct accounts adjacent to i in either direction
func (v *AccountView) Neighbors(i int) []int { return v.nbrs[i] }

// Count returns the number of hops from a to b
func (v *AccountView) Count(a, b int) int { return v.counts[[2]int{a, b}] }

// Volume returns the summed amount of hops from a to b
func (v *AccountView) Volume(a, b int) float64 { return v.volumes[[2]int{a, b}] }

// Connected reports whether a hop exists in either direction
func (v *AccountView) Connected(a, b int) bool {
	return v.counts[[2]int{a, b}] > 0 || v.counts[[2]int{b, a}] > 0
}

// HopCount returns the total number of hops, parallel hops included
func (v *AccountView) HopCount() int { return v.hops }

// PairCount returns the number of distinct directed account pairs
func (v *AccountView) PairCount() int { return len(v.counts) }
