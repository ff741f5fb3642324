package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
)

// SummaryOptions controls the report summary
type SummaryOptions struct {
	TopN        int // rows per ranking table
	MaxClusters int
	MaxCycles   int
	AddressKeep int // characters kept at each end of an address
}

// DefaultSummaryOptions returns the stock layout
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{TopN: 10, MaxClusters: 10, MaxCycles: 10, AddressKeep: 8}
}

// Summary renders a report for a terminal
func Summary(r *analytics.Report, opts SummaryOptions) string {
	if opts.TopN <= 0 {
		opts.TopN = algorithms.DefaultTopN
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Transaction graph analytics"))
	s.WriteString("\n")
	s.WriteString(mutedStyle.Render(fmt.Sprintf("run %s  %s  %s", r.RunID, r.State, r.Duration)))
	s.WriteString("\n")

	if failed := r.FailedSections(); len(failed) > 0 {
		for _, section := range failed {
			s.WriteString(criticalStyle.Render(fmt.Sprintf("section %s failed: %v", section, r.Failures[section])))
			s.WriteString("\n")
		}
	}

	s.WriteString(statsBoxStyle.Render(graphStats(r.Graph)))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Top by PageRank"))
	s.WriteString("\n")
	s.WriteString(rankingTable(r, r.Graph.TopByPageRank, "PageRank", opts))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Top by betweenness"))
	s.WriteString("\n")
	s.WriteString(rankingTable(r, r.Graph.TopByBetweenness, "Betweenness", opts))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Top by volume"))
	s.WriteString("\n")
	s.WriteString(rankingTable(r, r.Graph.TopByVolume, "Volume", opts))
	s.WriteString("\n")

	s.WriteString(clusterSection(r.Clusters, opts))
	s.WriteString(cycleSection(r.Cycles, opts))
	return s.String()
}

// WriteSummary writes Summary to w
func WriteSummary(w io.Writer, r *analytics.Report, opts SummaryOptions) error {
	_, err := io.WriteString(w, Summary(r, opts))
	return err
}

func graphStats(g analytics.GraphMetrics) string {
	rows := [][2]string{
		{"Accounts", strconv.Itoa(g.NodeCount)},
		{"Account links", strconv.Itoa(g.EdgeCount)},
		{"Transactions", strconv.Itoa(g.TransactionCount)},
		{"Density", formatScore(g.Density)},
		{"Average degree", strconv.FormatFloat(g.AverageDegree, 'f', 2, 64)},
		{"Clustering", formatScore(g.ClusteringCoefficient)},
		{"Components", strconv.Itoa(g.ComponentCount)},
		{"Total volume", FormatAmount(g.TotalVolume)},
	}
	if g.SkippedEdges > 0 {
		rows = append(rows, [2]string{"Skipped edges", warnStyle.Render(strconv.Itoa(g.SkippedEdges))})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-15s %s", row[0]+":", row[1]))
	}
	return strings.Join(lines, "\n")
}

func rankingTable(r *analytics.Report, ranked []algorithms.RankedNode, scoreTitle string, opts SummaryOptions) string {
	if len(ranked) == 0 {
		return mutedStyle.Render("  (none)")
	}

	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Account", Width: 2*opts.AddressKeep + 3},
		{Title: scoreTitle, Width: 16},
		{Title: "Degree", Width: 6},
		{Title: "Cluster", Width: 7},
	}

	rows := make([]table.Row, 0, min(opts.TopN, len(ranked)))
	for i, rn := range ranked {
		if i >= opts.TopN {
			break
		}
		score := formatScore(rn.Score)
		if scoreTitle == "Volume" {
			score = FormatAmount(rn.Score)
		}
		degree, cluster := "-", "-"
		if nm, ok := r.Node(rn.NodeID); ok {
			degree = strconv.Itoa(nm.Degree)
			if nm.Community >= 0 {
				cluster = strconv.Itoa(nm.Community)
			}
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			TruncateAddress(rn.NodeID, opts.AddressKeep),
			score,
			degree,
			cluster,
		})
	}
	return staticTable(columns, rows)
}

func clusterSection(a *algorithms.ClusterAnalysis, opts SummaryOptions) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Clusters"))
	s.WriteString("\n")

	if a == nil || len(a.Clusters) == 0 {
		s.WriteString(mutedStyle.Render("  (none)"))
		s.WriteString("\n")
		return s.String()
	}

	st := a.Stats
	s.WriteString(fmt.Sprintf("%d clusters, %d isolated, %d bridges, largest %d, modularity %s\n",
		st.ClusterCount, st.IsolatedCount, st.BridgeCount, st.LargestCluster, formatScore(st.Modularity)))

	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Size", Width: 5},
		{Title: "Density", Width: 8},
		{Title: "Volume", Width: 16},
		{Title: "Center", Width: 2*opts.AddressKeep + 3},
		{Title: "Risk", Width: 5},
	}
	rows := make([]table.Row, 0)
	for i, c := range a.Clusters {
		if opts.MaxClusters > 0 && i >= opts.MaxClusters {
			break
		}
		rows = append(rows, table.Row{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Size),
			strconv.FormatFloat(c.Density, 'f', 3, 64),
			FormatAmount(c.TotalVolume),
			TruncateAddress(c.CenterNode, opts.AddressKeep),
			strconv.Itoa(c.RiskScore),
		})
	}
	s.WriteString(staticTable(columns, rows))
	s.WriteString("\n")
	return s.String()
}

func cycleSection(cycles []*algorithms.WashCycle, opts SummaryOptions) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Wash-trading cycles"))
	s.WriteString("\n")

	if len(cycles) == 0 {
		s.WriteString(mutedStyle.Render("  (none)"))
		s.WriteString("\n")
		return s.String()
	}

	for i, c := range cycles {
		if opts.MaxCycles > 0 && i >= opts.MaxCycles {
			s.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", len(cycles)-i)))
			s.WriteString("\n")
			break
		}
		members := make([]string, 0, len(c.Members)+1)
		for _, m := range c.Members {
			members = append(members, TruncateAddress(m, opts.AddressKeep))
		}
		members = append(members, members[0])

		s.WriteString(fmt.Sprintf("  %s len=%d freq=%d volume=%s  %s\n",
			riskBadge(c.RiskLevel), c.Length, c.Frequency, FormatAmount(c.Volume),
			strings.Join(members, " → ")))
	}
	return s.String()
}

func riskBadge(level algorithms.RiskLevel) string {
	label := fmt.Sprintf("[%-8s]", strings.ToUpper(string(level)))
	switch level {
	case algorithms.RiskCritical:
		return criticalStyle.Render(label)
	case algorithms.RiskHigh:
		return highStyle.Render(label)
	case algorithms.RiskMedium:
		return warnStyle.Render(label)
	default:
		return mutedStyle.Render(label)
	}
}

// banner renders a centred title box of the given inner width
func banner(title string, width int) string {
	return bannerStyle.Width(width).Render(title)
}
