package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/config"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
	"github.com/dd0wney/cluso-txgraph/pkg/metrics"
	"github.com/dd0wney/cluso-txgraph/pkg/snapshot"
)

const usage = `txgraph - transaction graph analytics

Usage:
  txgraph <command> [flags]

Commands:
  analyze   compute metrics, clusters and wash-trading cycles
  trace     render the transfer tree from an origin account
  path      shortest or bounded all paths between two nodes
  query     run a GraphQL query against a fresh report
  serve     serve GraphQL and Prometheus metrics over HTTP
  convert   rewrite a snapshot, compressing when the output ends in .sz

Run 'txgraph <command> -h' for command flags.
`

type command func(ctx context.Context, args []string) error

var commands = map[string]command{
	"analyze": runAnalyze,
	"trace":   runTrace,
	"path":    runPath,
	"query":   runQuery,
	"serve":   runServe,
	"convert": runConvert,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every command that reads a snapshot
type commonFlags struct {
	snapshot   *string
	config     *string
	logLevel   *string
	windowFrom *string
	windowTo   *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		snapshot:   fs.String("snapshot", "", "Snapshot file (.json or .json.sz)"),
		config:     fs.String("config", "", "YAML configuration file"),
		logLevel:   fs.String("log-level", "", "Log level override (debug, info, warn, error)"),
		windowFrom: fs.String("from-time", "", "Only include edges at or after this RFC3339 time"),
		windowTo:   fs.String("to-time", "", "Only include edges at or before this RFC3339 time"),
	}
}

// env is everything a command needs after flag parsing
type env struct {
	cfg    *config.Config
	logger logging.Logger
	snap   *graph.Snapshot
	reg    *metrics.Registry
}

func (c *commonFlags) load() (*env, error) {
	cfg := config.Default()
	if *c.config != "" {
		loaded, err := config.Load(*c.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *c.logLevel != "" {
		cfg.Logging.Level = *c.logLevel
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Logging.Level))
	logging.SetDefaultLogger(logger)

	if *c.snapshot == "" {
		return nil, fmt.Errorf("-snapshot is required")
	}
	snap, err := snapshot.Load(*c.snapshot, logger)
	if err != nil {
		return nil, err
	}

	if *c.windowFrom != "" || *c.windowTo != "" {
		from, err := parseTime(*c.windowFrom)
		if err != nil {
			return nil, fmt.Errorf("-from-time: %w", err)
		}
		to, err := parseTime(*c.windowTo)
		if err != nil {
			return nil, fmt.Errorf("-to-time: %w", err)
		}
		snap = snap.Window(from, to)
		logger.Info("applied time window",
			logging.String("from", *c.windowFrom),
			logging.String("to", *c.windowTo),
			logging.Int("edges", snap.EdgeCount()))
	}

	return &env{cfg: cfg, logger: logger, snap: snap, reg: metrics.DefaultRegistry()}, nil
}

// parseTime accepts RFC3339; empty means unbounded
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (e *env) engine() (*analytics.Engine, error) {
	return analytics.NewEngine(e.cfg.Engine,
		analytics.WithLogger(e.logger),
		analytics.WithMetrics(e.reg))
}
