package analytics

import (
	"context"

	"github.com/dd0wney/cluso-txgraph/pkg/algorithms"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
)

// ShortestPath finds the fewest-hop directed route between two nodes. It
// returns nil without error when either node is absent or unreachable.
func (e *Engine) ShortestPath(ctx context.Context, snap *graph.Snapshot, from, to string) (*algorithms.Path, error) {
	if snap == nil {
		snap = graph.Empty()
	}
	timer := logging.StartTimer(e.logger, "shortest path",
		logging.String("from", from), logging.String("to", to))

	path, err := algorithms.ShortestPath(ctx, snap, from, to)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	if path == nil {
		timer.End(logging.Bool("found", false))
	} else {
		timer.End(logging.Bool("found", true), logging.Int("hops", path.Hops))
	}
	if e.metrics != nil {
		e.metrics.RecordPathQuery("shortest", path != nil)
	}
	return path, nil
}

// AllPaths enumerates the shortest simple paths between two nodes within
// the configured depth and count caps
func (e *Engine) AllPaths(ctx context.Context, snap *graph.Snapshot, from, to string) ([]*algorithms.Path, error) {
	if snap == nil {
		snap = graph.Empty()
	}
	opts := algorithms.PathOptions{
		MaxDepth: e.cfg.Paths.MaxDepth,
		MaxPaths: e.cfg.Paths.MaxPaths,
	}
	timer := logging.StartTimer(e.logger, "all paths",
		logging.String("from", from), logging.String("to", to),
		logging.Int("max_depth", opts.MaxDepth), logging.Int("max_paths", opts.MaxPaths))

	paths, err := algorithms.AllPaths(ctx, snap, from, to, opts)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(logging.Count(len(paths)))
	if e.metrics != nil {
		e.metrics.RecordPathQuery("all", len(paths) > 0)
	}
	return paths, nil
}
