package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
	"github.com/dd0wney/cluso-txgraph/pkg/query"
	"github.com/dd0wney/cluso-txgraph/pkg/report"
	"github.com/dd0wney/cluso-txgraph/pkg/snapshot"
)

func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	common := addCommonFlags(fs)
	format := fs.String("format", "text", "Output format: text or json")
	out := fs.String("out", "", "Write the report to this file instead of stdout")
	topN := fs.Int("top", 10, "Rows per ranking table in text output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	engine, err := e.engine()
	if err != nil {
		return err
	}

	r := engine.Compute(ctx, e.snap)

	w := io.Writer(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "json":
		return writeJSONReport(w, r)
	case "text":
		opts := report.DefaultSummaryOptions()
		opts.TopN = *topN
		return report.WriteSummary(w, r, opts)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

// jsonReport adds rendered failures, which do not serialise as errors
type jsonReport struct {
	*analytics.Report
	FailureMessages map[string]string `json:"failures,omitempty"`
}

func writeJSONReport(w io.Writer, r *analytics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Report: r, FailureMessages: r.FailureMessages()})
}

func runTrace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	common := addCommonFlags(fs)
	from := fs.String("from", "", "Origin account")
	to := fs.String("to", "", "Target account (optional)")
	token := fs.String("token", "", "Token name for the header")
	mint := fs.String("mint", "", "Token mint address for the header")
	title := fs.String("title", "", "Header title")
	noTimestamps := fs.Bool("no-timestamps", false, "Hide transfer timestamps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" {
		return fmt.Errorf("-from is required")
	}

	e, err := common.load()
	if err != nil {
		return err
	}

	opts := report.DefaultTraceOptions()
	opts.TokenName = *token
	opts.TokenMint = *mint
	opts.ShowTimestamps = !*noTimestamps
	opts.MaxDepth = e.cfg.Engine.Paths.MaxDepth
	opts.MaxPaths = e.cfg.Engine.Paths.MaxPaths
	if *title != "" {
		opts.Title = *title
	}

	out, err := report.TraceFlow(ctx, e.snap, *from, *to, opts)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runPath(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	common := addCommonFlags(fs)
	from := fs.String("from", "", "Start node")
	to := fs.String("to", "", "End node")
	all := fs.Bool("all", false, "Enumerate bounded simple paths instead of the shortest one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("-from and -to are required")
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	engine, err := e.engine()
	if err != nil {
		return err
	}

	var paths []*algorithms.Path
	if *all {
		paths, err = engine.AllPaths(ctx, e.snap, *from, *to)
	} else {
		var p *algorithms.Path
		p, err = engine.ShortestPath(ctx, e.snap, *from, *to)
		if p != nil {
			paths = append(paths, p)
		}
	}
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Printf("No path from %s to %s\n", *from, *to)
		return nil
	}
	for i, p := range paths {
		hops := make([]string, len(p.Nodes))
		for j, id := range p.Nodes {
			hops[j] = report.TruncateAddress(id, 8)
		}
		fmt.Printf("PATH #%d (%d hops, %s): %s\n", i+1, p.Hops, report.FormatAmount(p.TotalAmount), strings.Join(hops, " → "))
		if len(p.Signatures) > 0 {
			fmt.Printf("  signatures: %s\n", strings.Join(p.Signatures, ", "))
		}
	}
	return nil
}

func runQuery(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	common := addCommonFlags(fs)
	q := fs.String("q", "", "GraphQL query")
	vars := fs.String("vars", "", "Query variables as a JSON object")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *q == "" {
		return fmt.Errorf("-q is required")
	}

	var variables map[string]any
	if *vars != "" {
		if err := json.Unmarshal([]byte(*vars), &variables); err != nil {
			return fmt.Errorf("-vars: %w", err)
		}
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	engine, err := e.engine()
	if err != nil {
		return err
	}

	schema, err := query.NewSchema(engine.Compute(ctx, e.snap))
	if err != nil {
		return err
	}
	result := query.Execute(schema, *q, variables)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("query returned %d errors", len(result.Errors))
	}
	return nil
}

func runConvert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	common := addCommonFlags(fs)
	out := fs.String("out", "", "Output snapshot path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-out is required")
	}

	e, err := common.load()
	if err != nil {
		return err
	}
	timer := logging.StartTimer(e.logger, "convert snapshot", logging.Path(*out))
	if err := snapshot.Save(*out, e.snap); err != nil {
		timer.EndError(err)
		return err
	}
	timer.EndInfo(logging.Int("nodes", e.snap.NodeCount()), logging.Int("edges", e.snap.EdgeCount()))
	return nil
}
