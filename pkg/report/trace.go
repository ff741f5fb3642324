package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

// TraceOptions controls a flow trace
type TraceOptions struct {
	Title      string
	TokenName  string
	TokenMint  string
	OriginIcon string
	TargetIcon string
	NodeIcon   string

	ShowHeader     bool
	ShowPaths      bool
	ShowStats      bool
	ShowTimestamps bool

	AddressKeep int // characters kept at each end of an address in the tree

	// Path summary bounds
	MaxDepth int
	MaxPaths int
}

// DefaultTraceOptions returns the stock trace layout
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		Title:          "TOKEN DISTRIBUTION TRACE",
		OriginIcon:     "ORIGIN",
		TargetIcon:     "TARGET",
		NodeIcon:       "○",
		ShowHeader:     true,
		ShowPaths:      true,
		ShowStats:      true,
		ShowTimestamps: true,
		AddressKeep:    12,
		MaxDepth:       algorithms.DefaultPathMaxDepth,
		MaxPaths:       algorithms.DefaultPathMaxPaths,
	}
}

const (
	traceWidth      = 74
	traceIndent     = "      "
	pathAddressKeep = 8
	timestampLayout = "Jan 2, 2006 15:04:05 UTC"
)

// TraceFlow renders the transfer tree reachable from origin, each node
// once, followed by the paths from origin to target and a stats block.
// target may be empty.
func TraceFlow(ctx context.Context, snap *graph.Snapshot, origin, target string, opts TraceOptions) (string, error) {
	if !snap.HasNode(origin) {
		return "", fmt.Errorf("trace origin %q: %w", origin, graph.ErrMissingNode)
	}
	if target != "" && !snap.HasNode(target) {
		return "", fmt.Errorf("trace target %q: %w", target, graph.ErrMissingNode)
	}

	t := &tracer{snap: snap, origin: origin, target: target, opts: opts, visited: make(map[string]bool)}
	var out strings.Builder

	if opts.ShowHeader {
		out.WriteString(banner(opts.Title, traceWidth))
		out.WriteString("\n\n")
	}
	if opts.TokenName != "" {
		out.WriteString("TOKEN: " + opts.TokenName)
		if opts.TokenMint != "" {
			out.WriteString(" (" + TruncateAddress(opts.TokenMint, pathAddressKeep) + ")")
		}
		out.WriteString("\n")
	}
	if target != "" {
		out.WriteString("TARGET: " + target + "\n\n")
	}
	out.WriteString(strings.Repeat("═", traceWidth+1))
	out.WriteString("\n\n")

	t.node(&out, origin, 0)

	if opts.ShowPaths && target != "" {
		paths, err := algorithms.AllPaths(ctx, snap, origin, target, algorithms.PathOptions{
			MaxDepth: opts.MaxDepth,
			MaxPaths: opts.MaxPaths,
		})
		if err != nil {
			return "", fmt.Errorf("trace paths: %w", err)
		}
		out.WriteString("\n")
		out.WriteString(strings.Repeat("━", traceWidth))
		out.WriteString("\n\n")
		out.WriteString(fmt.Sprintf("PATHS SUMMARY (%d paths found):\n\n", len(paths)))
		for i, p := range paths {
			hops := make([]string, len(p.Nodes))
			for j, id := range p.Nodes {
				hops[j] = TruncateAddress(id, pathAddressKeep)
			}
			out.WriteString(fmt.Sprintf("PATH #%d: %s\n", i+1, strings.Join(hops, " → ")))
		}
	}

	if opts.ShowStats {
		out.WriteString("\n")
		out.WriteString(statsBoxStyle.Width(traceWidth).Render(t.stats()))
		out.WriteString("\n")
	}
	return out.String(), nil
}

type tracer struct {
	snap    *graph.Snapshot
	origin  string
	target  string
	opts    TraceOptions
	visited map[string]bool
}

func (t *tracer) node(out *strings.Builder, id string, depth int) {
	if t.visited[id] {
		return
	}
	t.visited[id] = true

	indent := strings.Repeat(traceIndent, depth)
	switch {
	case depth == 0:
		out.WriteString(t.opts.OriginIcon)
	case id == t.target:
		out.WriteString(indent + t.opts.TargetIcon)
	default:
		out.WriteString(indent + t.opts.NodeIcon)
	}
	if n, ok := t.snap.Node(id); ok && n.Label() != "" {
		out.WriteString(" " + n.Label())
	}
	out.WriteString(" " + TruncateAddress(id, t.opts.AddressKeep) + "\n")

	outgoing := t.snap.NeighborsOut(id)
	for i, nb := range outgoing {
		last := i == len(outgoing)-1
		connector := "├──→"
		if last {
			connector = "└──→"
		}

		out.WriteString(indent + traceIndent + connector + " " + t.transfer(nb.Edge))
		out.WriteString(" ──→ " + TruncateAddress(nb.NodeID, t.opts.AddressKeep) + "\n")

		if !t.visited[nb.NodeID] {
			t.node(out, nb.NodeID, depth+1)
			if !last {
				out.WriteString("\n")
			}
		}
	}
}

func (t *tracer) transfer(e *graph.Edge) string {
	label := "[" + FormatAmount(e.Amount)
	if e.TokenSymbol != "" {
		label += " " + e.TokenSymbol
	}
	label += "]"
	if t.opts.ShowTimestamps && e.Timestamp != nil {
		label += " (" + e.Timestamp.UTC().Format(timestampLayout) + ")"
	}
	return label
}

func (t *tracer) stats() string {
	lines := []string{
		fmt.Sprintf("%-18s %s", "Accounts involved:", strconv.Itoa(len(t.visited))),
		fmt.Sprintf("%-18s %s", "Total transfers:", strconv.Itoa(t.transfersWithin())),
	}
	if t.target != "" {
		received := 0.0
		for _, nb := range t.snap.NeighborsIn(t.target) {
			received += nb.Edge.Amount
		}
		lines = append(lines, fmt.Sprintf("%-18s %s", "Target received:", FormatAmount(received)))
	}
	return strings.Join(lines, "\n")
}

// transfersWithin counts edges leaving traced nodes
func (t *tracer) transfersWithin() int {
	total := 0
	for id := range t.visited {
		total += len(t.snap.NeighborsOut(id))
	}
	return total
}
