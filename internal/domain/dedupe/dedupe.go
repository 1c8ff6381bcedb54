// Package dedupe implements the duplicate-email gate: an exact-match,
// short-circuit check against the reference population's known emails.
package dedupe

import (
	"context"

	"github.com/okian/leadrank/internal/domain/normalize"
)

// Gate answers whether a lead is already a known customer. When it matches,
// the caller skips embedding and search entirely and reports only the
// duplicate verdict.
type Gate interface {
	// IsDuplicate reports whether the raw email, once normalized, is
	// non-empty and present in the known set. Empty or absent emails never
	// match.
	IsDuplicate(ctx context.Context, rawEmail string) bool

	// Size returns the number of known emails.
	Size() int64
}

// emailGate is a frozen set of normalized known emails, loaded once at
// service start and read-only for the process lifetime. No locking: the set
// is never mutated after construction.
type emailGate struct {
	known map[string]struct{}
}

// NewEmailGate builds a Gate from known emails. Inputs are normalized here,
// so both raw and pre-normalized lists are acceptable; empty entries are
// dropped.
func NewEmailGate(emails []string) Gate {
	known := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := normalize.Email(e); n != "" {
			known[n] = struct{}{}
		}
	}
	return &emailGate{known: known}
}

func (g *emailGate) IsDuplicate(_ context.Context, rawEmail string) bool {
	n := normalize.Email(rawEmail)
	if n == "" {
		return false
	}
	_, ok := g.known[n]
	return ok
}

func (g *emailGate) Size() int64 {
	return int64(len(g.known))
}
