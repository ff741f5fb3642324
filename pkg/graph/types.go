package graph

import "time"

// NodeKind distinguishes accounts from transaction connector nodes
type NodeKind uint8

const (
	KindAccount NodeKind = iota
	KindTransaction
)

// String returns the kind name used in snapshot files
func (k NodeKind) String() string {
	switch k {
	case KindAccount:
		return "account"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// ParseNodeKind is the inverse of String
func ParseNodeKind(s string) (NodeKind, bool) {
	switch s {
	case "account", "":
		return KindAccount, true
	case "transaction", "tx":
		return KindTransaction, true
	default:
		return KindAccount, false
	}
}

// Node is an account address or a transaction signature
type Node struct {
	ID         string
	Kind       NodeKind
	Attributes map[string]any // balance, labels, risk flags; opaque to the engine
}

// IsAccount reports whether the node takes part in account analytics
func (n *Node) IsAccount() bool {
	return n != nil && n.Kind == KindAccount
}

// Label returns the "label" attribute if present
func (n *Node) Label() string {
	if n == nil || n.Attributes == nil {
		return ""
	}
	if s, ok := n.Attributes["label"].(string); ok {
		return s
	}
	return ""
}

// Edge is a directed transfer or connection. Parallel edges between the
// same pair are allowed.
type Edge struct {
	ID          string
	Source      string
	Target      string
	Amount      float64
	Timestamp   *time.Time // nil means always visible in windowed views
	TokenSymbol string
	Signature   string // transaction signature when not modelled as a node
}

// Neighbor pairs an incident edge with the node on its other end
type Neighbor struct {
	Edge   *Edge
	NodeID string
}

// IsAccount is a NodesMatching predicate
func IsAccount(n *Node) bool { return n.IsAccount() }

// IsTransaction is a NodesMatching predicate
func IsTransaction(n *Node) bool { return n != nil && n.Kind == KindTransaction }
