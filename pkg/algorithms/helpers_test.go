package algorithms

import (
	"fmt"
	"testing"

	"github.com/dd0wney/cluso-txgraph/pkg/graph"
)

type transfer struct {
	from, to string
	amount   float64
}

// newTestSnapshot builds a snapshot of accounts and transfers. Accounts are
// added in the given order, which fixes snapshot order for determinism.
func newTestSnapshot(t *testing.T, accounts []string, transfers ...transfer) *graph.Snapshot {
	t.Helper()

	b := graph.NewBuilder()
	for _, id := range accounts {
		if err := b.AddAccount(id); err != nil {
			t.Fatalf("Failed to add account %s: %v", id, err)
		}
	}
	for i, tr := range transfers {
		if err := b.Transfer(fmt.Sprintf("e%d", i), tr.from, tr.to, tr.amount); err != nil {
			t.Fatalf("Failed to add transfer %d: %v", i, err)
		}
	}
	return b.Build()
}

// ring returns transfers a0->a1->...->a(n-1)->a0
func ring(ids []string, amount float64) []transfer {
	out := make([]transfer, 0, len(ids))
	for i, id := range ids {
		out = append(out, transfer{from: id, to: ids[(i+1)%len(ids)], amount: amount})
	}
	return out
}

func accountIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%02d", prefix, i)
	}
	return ids
}
