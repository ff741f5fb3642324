package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
)

// ErrUnknownFormat is returned for files that are neither JSON nor
// snappy-compressed JSON
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Format selects the file encoding
type Format int

const (
	FormatJSON Format = iota
	FormatSnappy
)

// CompressedExt marks snappy-compressed snapshot files
const CompressedExt = ".sz"

// FormatFor picks the encoding from a file name
func FormatFor(path string) Format {
	if strings.HasSuffix(path, CompressedExt) {
		return FormatSnappy
	}
	return FormatJSON
}

// Encode serialises a document
func Encode(doc *Document, format Format) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if format == FormatSnappy {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// Decode parses a document. The encoding is sniffed: JSON starts with an
// object, anything else must decode as a snappy block. A snappy block whose
// length prefix happens to be '{' falls through to the compressed path.
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnknownFormat)
	}

	var jsonErr error
	if trimmed[0] == '{' {
		doc, err := decodeJSON(trimmed)
		if err == nil {
			return doc, nil
		}
		jsonErr = err
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		if jsonErr != nil {
			return nil, jsonErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	decoded = bytes.TrimSpace(decoded)
	if len(decoded) == 0 || decoded[0] != '{' {
		return nil, fmt.Errorf("%w: compressed payload is not a JSON object", ErrUnknownFormat)
	}
	return decodeJSON(decoded)
}

func decodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &doc, nil
}

// Read decodes a snapshot from a stream
func Read(r io.Reader, logger logging.Logger) (*graph.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return doc.Build(logger)
}

// Load memory-maps a snapshot file and builds it
func Load(path string, logger logging.Logger) (*graph.Snapshot, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	timer := logging.StartTimer(logger, "load snapshot", logging.Path(path))

	data, err := readMapped(path)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap, err := doc.Build(logger)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	timer.EndInfo(
		logging.Int("nodes", snap.NodeCount()),
		logging.Int("edges", snap.EdgeCount()),
		logging.Int("skipped_edges", len(snap.SkippedEdges())))
	return snap, nil
}

// readMapped copies a file out of a read-only mapping
func readMapped(path string) ([]byte, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer reader.Close()

	buf := make([]byte, reader.Len())
	if len(buf) == 0 {
		return buf, nil
	}
	if _, err := reader.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return buf, nil
}

// Save writes a snapshot, compressing when the path ends in ".sz". The
// file is written to a temporary name and renamed into place.
func Save(path string, snap *graph.Snapshot) error {
	data, err := Encode(FromSnapshot(snap), FormatFor(path))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}
