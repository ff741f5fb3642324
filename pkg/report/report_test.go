package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/config"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

func TestTruncateAddress(t *testing.T) {
	tests := []struct {
		addr string
		keep int
		want string
	}{
		{"EQ3iykiT6Jg1ReuaaLc2bnxFXwxBkiXgZifYJxaULAEC", 8, "EQ3iykiT...JxaULAEC"},
		{"Origin123", 8, "Origin123"},
		{"ABCDEFGHIJKLMNOP", 8, "ABCDEFGHIJKLMNOP"},
		{"ABCDEFGHIJKLMNOPQ", 8, "ABCDEFGH...JKLMNOPQ"},
		{"anything", 0, "anything"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateAddress(tt.addr, tt.keep), tt.addr)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{31151612, "31,151,612.00"},
		{1234567.891, "1,234,567.89"},
		{-4500, "-4,500.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.v))
	}
}

// distribution mirrors a token distribution: a mint feeding a distributor
// that feeds a hub and the target directly
func distribution(t *testing.T) *graph.Snapshot {
	t.Helper()
	day1 := time.Date(2024, 12, 26, 10, 51, 22, 0, time.UTC)

	b := graph.NewBuilder()
	require.NoError(t, b.AddNode(graph.Node{ID: "EQ3iykiT6Jg1ReuaaLc2bnxFXwxBkiXgZifYJxaULAEC", Attributes: map[string]any{"label": "MINT"}}))
	require.NoError(t, b.AddNode(graph.Node{ID: "7q34BaA8vaNnqKMnzF8DtoxtveKSNcgKEUBSy72pgNng", Attributes: map[string]any{"label": "Primary Distributor"}}))
	require.NoError(t, b.AddAccount("BUZZ5JEG9NLQY4RAFt5fLPiYBZVbXtQ3YTSjd5bMsfsf"))
	require.NoError(t, b.AddAccount("5rVDMMoBQs3zJQ9DT7oxsoNZfxptgLCKhuWqdwoX9q85"))

	require.NoError(t, b.AddEdge(graph.Edge{ID: "t1", Source: "EQ3iykiT6Jg1ReuaaLc2bnxFXwxBkiXgZifYJxaULAEC", Target: "7q34BaA8vaNnqKMnzF8DtoxtveKSNcgKEUBSy72pgNng", Amount: 31151612, TokenSymbol: "SVMAI", Timestamp: &day1}))
	require.NoError(t, b.AddEdge(graph.Edge{ID: "t2", Source: "7q34BaA8vaNnqKMnzF8DtoxtveKSNcgKEUBSy72pgNng", Target: "BUZZ5JEG9NLQY4RAFt5fLPiYBZVbXtQ3YTSjd5bMsfsf", Amount: 21658962, TokenSymbol: "SVMAI"}))
	require.NoError(t, b.AddEdge(graph.Edge{ID: "t3", Source: "BUZZ5JEG9NLQY4RAFt5fLPiYBZVbXtQ3YTSjd5bMsfsf", Target: "5rVDMMoBQs3zJQ9DT7oxsoNZfxptgLCKhuWqdwoX9q85", Amount: 16000000, TokenSymbol: "SVMAI"}))
	require.NoError(t, b.AddEdge(graph.Edge{ID: "t4", Source: "7q34BaA8vaNnqKMnzF8DtoxtveKSNcgKEUBSy72pgNng", Target: "5rVDMMoBQs3zJQ9DT7oxsoNZfxptgLCKhuWqdwoX9q85", Amount: 500000, TokenSymbol: "SVMAI"}))
	return b.Build()
}

func TestTraceFlow(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.TokenName = "SVMAI"
	opts.TokenMint = "Cpzvdx6pppc9TNArsGsqgShCsKC9NCCjA2gtzHvUpump"

	out, err := TraceFlow(context.Background(), distribution(t),
		"EQ3iykiT6Jg1ReuaaLc2bnxFXwxBkiXgZifYJxaULAEC",
		"5rVDMMoBQs3zJQ9DT7oxsoNZfxptgLCKhuWqdwoX9q85", opts)
	require.NoError(t, err)

	assert.Contains(t, out, "TOKEN DISTRIBUTION TRACE")
	assert.Contains(t, out, "TOKEN: SVMAI (Cpzvdx6p...zHvUpump)")
	assert.Contains(t, out, "ORIGIN MINT EQ3iykiT6Jg1...ZifYJxaULAEC")
	assert.Contains(t, out, "Primary Distributor")
	assert.Contains(t, out, "[31,151,612.00 SVMAI] (Dec 26, 2024 10:51:22 UTC)")
	assert.Contains(t, out, "├──→ [21,658,962.00 SVMAI]")
	assert.Contains(t, out, "└──→ [500,000.00 SVMAI]")
	assert.Contains(t, out, "PATHS SUMMARY (2 paths found):")
	assert.Contains(t, out, "PATH #1: EQ3iykiT...JxaULAEC → 7q34BaA8...y72pgNng → 5rVDMMoB...dwoX9q85")
	assert.Contains(t, out, "Target received:")
	assert.Contains(t, out, "16,500,000.00")

	// the target is drawn once even though two transfers reach it
	assert.Equal(t, 1, strings.Count(out, "TARGET 5rVDMMoBQs3z"))
}

func TestTraceFlow_Options(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.ShowHeader = false
	opts.ShowPaths = false
	opts.ShowStats = false
	opts.ShowTimestamps = false

	out, err := TraceFlow(context.Background(), distribution(t), "BUZZ5JEG9NLQY4RAFt5fLPiYBZVbXtQ3YTSjd5bMsfsf", "", opts)
	require.NoError(t, err)

	assert.NotContains(t, out, "TOKEN DISTRIBUTION TRACE")
	assert.NotContains(t, out, "PATHS SUMMARY")
	assert.NotContains(t, out, "Total transfers")
	assert.NotContains(t, out, "2024")
	assert.Contains(t, out, "[16,000,000.00 SVMAI]")
}

func TestTraceFlow_MissingNodes(t *testing.T) {
	snap := distribution(t)

	_, err := TraceFlow(context.Background(), snap, "nobody", "", DefaultTraceOptions())
	assert.ErrorIs(t, err, graph.ErrMissingNode)

	_, err = TraceFlow(context.Background(), snap, "BUZZ5JEG9NLQY4RAFt5fLPiYBZVbXtQ3YTSjd5bMsfsf", "nobody", DefaultTraceOptions())
	assert.ErrorIs(t, err, graph.ErrMissingNode)
}

func TestSummary(t *testing.T) {
	b := graph.NewBuilder()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, b.AddAccount(id))
	}
	require.NoError(t, b.Transfer("e1", "A", "B", 1500))
	require.NoError(t, b.Transfer("e2", "B", "C", 1500))
	require.NoError(t, b.Transfer("e3", "C", "A", 1500))

	engine, err := analytics.NewEngine(config.DefaultEngine())
	require.NoError(t, err)
	r := engine.Compute(context.Background(), b.Build())

	out := Summary(r, DefaultSummaryOptions())

	assert.Contains(t, out, r.RunID)
	assert.Contains(t, out, "Accounts:")
	assert.Contains(t, out, "4,500.00")
	assert.Contains(t, out, "Top by PageRank")
	assert.Contains(t, out, "Wash-trading cycles")
	assert.Contains(t, out, "A → B → C → A")
	assert.NotContains(t, out, "failed")
}

func TestSummary_ShowsFailures(t *testing.T) {
	engine, err := analytics.NewEngine(config.DefaultEngine())
	require.NoError(t, err)
	r := engine.Compute(context.Background(), graph.Empty())
	r.Failures[analytics.SectionCycles] = errors.New("search aborted")

	out := Summary(r, DefaultSummaryOptions())
	assert.Contains(t, out, "section cycles failed: search aborted")
	assert.Contains(t, out, "(none)")
}
