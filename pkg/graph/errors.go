package graph

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID        = errors.New("empty id")
	ErrDuplicateNode  = errors.New("duplicate node id")
	ErrDuplicateEdge  = errors.New("duplicate edge id")
	ErrNegativeAmount = errors.New("negative edge amount")
	ErrInvalidAmount  = errors.New("edge amount is not a finite number")
	ErrMissingNode    = errors.New("edge references missing node")
	ErrBuilderClosed  = errors.New("builder already built")
)

// SnapshotError describes a rejected mutation while assembling a snapshot.
type SnapshotError struct {
	Op     string // AddNode, AddEdge, Build
	Entity string // node or edge
	ID     string
	Cause  error
}

func (e *SnapshotError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SnapshotError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the cause.
func (e *SnapshotError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func nodeError(op, id string, cause error) error {
	return &SnapshotError{Op: op, Entity: "node", ID: id, Cause: cause}
}

func edgeError(op, id string, cause error) error {
	return &SnapshotError{Op: op, Entity: "edge", ID: id, Cause: cause}
}
