// Package ledger implements the per-entity cargo ledger: two append-only
// transfer logs written by the simulation loop and aggregated by the
// presentation layer. This package is PURE and must NOT import any
// infrastructure packages.
package ledger

import (
	"sync"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
)

// TrackedResource is one immutable transfer record. The category is derived
// from the resource kind when the record is built and never supplied or
// changed afterwards.
type TrackedResource struct {
	Timestamp   time.Time
	Destination cargo.Destination
	Resource    cargo.Resource
	Category    cargo.Category
	Amount      int
}

// Filter narrows an aggregation to one category, one destination, or both.
// The zero value matches every categorized entry.
type Filter struct {
	Category    cargo.Category
	Destination cargo.Destination
}

func (f Filter) matches(e TrackedResource) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Destination != "" && e.Destination != f.Destination {
		return false
	}
	return true
}

// Log is one append-only sequence of transfers guarded by its own mutex.
// The sent and received logs of a Ledger are independent synchronization
// domains: no operation ever holds both locks.
type Log struct {
	mu      sync.Mutex
	entries []TrackedResource
}

// Append records a transfer at the tail of the log. Amounts are stored as
// given; the ledger performs no range validation.
func (g *Log) Append(ts time.Time, dest cargo.Destination, res cargo.Resource, amount int) {
	e := TrackedResource{
		Timestamp:   ts,
		Destination: dest,
		Resource:    res,
		Category:    cargo.CategoryOf(res),
		Amount:      amount,
	}
	g.mu.Lock()
	g.entries = append(g.entries, e)
	g.mu.Unlock()
}

// Count returns the current length of the log. Unlike Total, entries whose
// resource kind is None are included here. The divergence matches the
// tracked game's observed behavior and is kept on purpose.
func (g *Log) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// snapshot copies the categorized entries (resource != None) into a private
// slice. The lock is held only for this linear copy; all filtering and
// summation happen on the copy with no lock held, so a slow reader never
// stalls the simulation writer.
func (g *Log) snapshot() []TrackedResource {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]TrackedResource, 0, len(g.entries))
	for _, e := range g.entries {
		if e.Resource == cargo.ResourceNone {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Total sums the amounts of categorized entries matching the filter.
// None-typed entries are never part of any total. An empty log, or a filter
// nothing matches, yields 0.
func (g *Log) Total(f Filter) int {
	var sum int
	for _, e := range g.snapshot() {
		if f.matches(e) {
			sum += e.Amount
		}
	}
	return sum
}

// Ledger tracks the cargo one simulation entity has sent and received.
// A ledger is owned by its entity for the entity's whole lifetime, but is
// shared by reference between the simulation writer and presentation
// readers; every operation on it is safe under that sharing.
type Ledger struct {
	sent     Log
	received Log
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Sent returns the log of outbound transfers.
func (l *Ledger) Sent() *Log {
	return &l.sent
}

// Received returns the log of inbound transfers.
func (l *Ledger) Received() *Log {
	return &l.received
}
