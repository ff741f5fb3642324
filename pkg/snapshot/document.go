// Package snapshot reads and writes graph snapshots as JSON documents,
// optionally snappy-compressed.
package snapshot

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
)

// FormatVersion is written into every document
const FormatVersion = 1

// Document is the on-disk form of a snapshot. Transfers is a shorthand
// for account-to-account edges whose endpoints need not be declared.
type Document struct {
	Version   int            `json:"version"`
	Nodes     []NodeRecord   `json:"nodes"`
	Edges     []EdgeRecord   `json:"edges"`
	Transfers []EdgeRecord   `json:"transfers,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type NodeRecord struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type EdgeRecord struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Target      string     `json:"target"`
	Amount      float64    `json:"amount"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	TokenSymbol string     `json:"token_symbol,omitempty"`
	Signature   string     `json:"signature,omitempty"`
}

// FromSnapshot converts a snapshot into a document. Skipped edges are not
// written.
func FromSnapshot(snap *graph.Snapshot) *Document {
	doc := &Document{
		Version: FormatVersion,
		Nodes:   make([]NodeRecord, 0, snap.NodeCount()),
		Edges:   make([]EdgeRecord, 0, snap.EdgeCount()),
	}
	for _, n := range snap.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:         n.ID,
			Kind:       n.Kind.String(),
			Attributes: n.Attributes,
		})
	}
	for _, e := range snap.Edges() {
		doc.Edges = append(doc.Edges, edgeRecord(e))
	}
	return doc
}

func edgeRecord(e *graph.Edge) EdgeRecord {
	return EdgeRecord{
		ID:          e.ID,
		Source:      e.Source,
		Target:      e.Target,
		Amount:      e.Amount,
		Timestamp:   e.Timestamp,
		TokenSymbol: e.TokenSymbol,
		Signature:   e.Signature,
	}
}

func (r EdgeRecord) edge() graph.Edge {
	return graph.Edge{
		ID:          r.ID,
		Source:      r.Source,
		Target:      r.Target,
		Amount:      r.Amount,
		Timestamp:   r.Timestamp,
		TokenSymbol: r.TokenSymbol,
		Signature:   r.Signature,
	}
}

// Build converts the document into a snapshot. Duplicate ids and
// malformed records are errors; edges with unknown endpoints are skipped
// by the builder with a warning.
func (d *Document) Build(logger logging.Logger) (*graph.Snapshot, error) {
	if d.Version > FormatVersion {
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrUnknownFormat, d.Version, FormatVersion)
	}

	b := graph.NewBuilder(graph.WithLogger(logger))
	for i, rec := range d.Nodes {
		kind, ok := graph.ParseNodeKind(rec.Kind)
		if !ok {
			return nil, fmt.Errorf("node %d (%s): unknown kind %q", i, rec.ID, rec.Kind)
		}
		if err := b.AddNode(graph.Node{ID: rec.ID, Kind: kind, Attributes: rec.Attributes}); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	for i, rec := range d.Edges {
		if err := b.AddEdge(rec.edge()); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	declared := make(map[string]struct{}, len(d.Nodes))
	for _, rec := range d.Nodes {
		declared[rec.ID] = struct{}{}
	}
	for i, rec := range d.Transfers {
		for _, id := range []string{rec.Source, rec.Target} {
			if _, ok := declared[id]; ok || id == "" {
				continue
			}
			if err := b.AddAccount(id); err != nil {
				return nil, fmt.Errorf("transfer %d: %w", i, err)
			}
			declared[id] = struct{}{}
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("transfer-%d", i)
		}
		if err := b.AddEdge(rec.edge()); err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}
	}

	return b.Build(), nil
}
