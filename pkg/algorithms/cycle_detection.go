package algorithms

import (
	"container/heap"
	"context"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// RiskLevel classifies a wash-trading cycle
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Severity orders risk levels, critical highest
func (r RiskLevel) Severity() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// minCycleLength excludes plain back-and-forth transfers between two
// accounts
const minCycleLength = 3

// WashCycle is a closed loop of transfers among accounts
type WashCycle struct {
	Members   []string  `json:"members"` // in traversal order, starting at the lowest snapshot index
	Length    int       `json:"length"`
	Frequency int       `json:"frequency"` // hops between consecutive members, both directions
	Volume    float64   `json:"volume"`
	RiskLevel RiskLevel `json:"risk_level"`
	Key       string    `json:"key"` // sorted members joined by "|"
}

// DetectWashTrading enumerates directed account cycles of length 3 to
// opts.MaxDepth and classifies them by risk.
//
// Each cycle is searched from its lowest-index member only, and cycles with
// the same member set are reported once regardless of direction. Every
// cycle within depth is enumerated; only the opts.MaxCycles most severe are
// kept. Results are sorted critical first, then by frequency.
func DetectWashTrading(ctx context.Context, snap *graph.Snapshot, opts CycleOptions) ([]*WashCycle, error) {
	opts = opts.normalized()
	view := snap.AccountView()

	// a cycle never leaves its strongly connected component
	scc, err := stronglyConnected(ctx, view)
	if err != nil {
		return nil, err
	}

	d := &cycleSearch{
		ctx:    ctx,
		view:   view,
		scc:    scc,
		opts:   opts,
		onPath: make([]bool, view.Len()),
		seen:   make(map[string]bool),
		kept:   make(cycleHeap, 0, min(opts.MaxCycles, 64)),
	}

	for start := 0; start < view.Len(); start++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if scc.size(start) < minCycleLength {
			continue
		}
		d.start = start
		d.path = append(d.path[:0], start)
		d.onPath[start] = true
		err := d.walk(start)
		d.onPath[start] = false
		if err != nil {
			return nil, err
		}
	}

	cycles := []*WashCycle(d.kept)
	sort.Slice(cycles, func(i, j int) bool {
		return moreSevere(cycles[i], cycles[j])
	})

	return cycles, nil
}

type cycleSearch struct {
	ctx    context.Context
	view   *graph.AccountView
	scc    *SCCResult
	opts   CycleOptions
	start  int
	path   []int
	onPath []bool
	seen   map[string]bool
	kept   cycleHeap
	steps  int
}

func (d *cycleSearch) walk(v int) error {
	d.steps++
	if d.steps%4096 == 0 {
		if err := d.ctx.Err(); err != nil {
			return err
		}
	}

	for _, w := range d.view.Out(v) {
		if w == d.start {
			if len(d.path) >= minCycleLength {
				d.record()
			}
			continue
		}
		// lower indices were exhausted as starts already
		if w < d.start || d.onPath[w] || len(d.path) >= d.opts.MaxDepth {
			continue
		}
		if d.scc.byIndex[w] != d.scc.byIndex[d.start] {
			continue
		}

		d.onPath[w] = true
		d.path = append(d.path, w)
		err := d.walk(w)
		d.path = d.path[:len(d.path)-1]
		d.onPath[w] = false
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *cycleSearch) record() {
	members := make([]string, len(d.path))
	for i, idx := range d.path {
		members[i] = d.view.ID(idx)
	}
	key := cycleKey(members)
	if d.seen[key] {
		return
	}
	d.seen[key] = true

	frequency := 0
	volume := 0.0
	for i, a := range d.path {
		b := d.path[(i+1)%len(d.path)]
		frequency += d.view.Count(a, b) + d.view.Count(b, a)
		volume += d.view.Volume(a, b) + d.view.Volume(b, a)
	}

	c := &WashCycle{
		Members:   members,
		Length:    len(members),
		Frequency: frequency,
		Volume:    volume,
		RiskLevel: ClassifyCycleRisk(len(members), frequency),
		Key:       key,
	}

	if len(d.kept) < d.opts.MaxCycles {
		heap.Push(&d.kept, c)
		return
	}
	if moreSevere(c, d.kept[0]) {
		d.kept[0] = c
		heap.Fix(&d.kept, 0)
	}
}

// moreSevere orders cycles by risk, then frequency, then key.
func moreSevere(a, b *WashCycle) bool {
	if a.RiskLevel.Severity() != b.RiskLevel.Severity() {
		return a.RiskLevel.Severity() > b.RiskLevel.Severity()
	}
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	return a.Key < b.Key
}

// cycleHeap is a min-heap with the least severe kept cycle at the root.
type cycleHeap []*WashCycle

func (h cycleHeap) Len() int           { return len(h) }
func (h cycleHeap) Less(i, j int) bool { return moreSevere(h[j], h[i]) }
func (h cycleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *cycleHeap) Push(x any) {
	*h = append(*h, x.(*WashCycle))
}

func (h *cycleHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func cycleKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// ClassifyCycleRisk grades a cycle: short loops with many transfers are the
// strongest wash-trading signal.
func ClassifyCycleRisk(length, frequency int) RiskLevel {
	switch {
	case (length <= 3 && frequency >= 6) || (length <= 4 && frequency >= 10):
		return RiskCritical
	case length <= 3 || (length <= 4 && frequency >= 5):
		return RiskHigh
	case length <= 5 || frequency >= 5:
		return RiskMedium
	default:
		return RiskLow
	}
}
