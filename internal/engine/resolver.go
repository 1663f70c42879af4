package engine

import (
	"context"
	"sync"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/fleet"
	"github.com/davortega/CargoRutas/server/internal/domain/ledger"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
)

// TotalsCache is an optional read-through cache for entity totals. The
// implementation lives in infra; the resolver only sees this interface and
// works fine with none at all. The cache is never the source of truth.
type TotalsCache interface {
	GetTotals(ctx context.Context, entityID string) (map[cargo.Category]int, bool)
	SetTotals(ctx context.Context, entityID string, totals map[cargo.Category]int)
}

// Resolver answers "what has this entity moved, right now" for the
// presentation side, as a per-category aggregate over both ledger logs.
type Resolver struct {
	mu       sync.RWMutex
	vehicles map[string]*fleet.Vehicle
	cache    TotalsCache
}

func NewResolver() *Resolver {
	return &Resolver{
		vehicles: make(map[string]*fleet.Vehicle),
	}
}

func (r *Resolver) RegisterVehicle(v *fleet.Vehicle) {
	r.mu.Lock()
	r.vehicles[v.ID] = v
	r.mu.Unlock()
}

// SetCache attaches a totals cache. Call before the engine starts.
func (r *Resolver) SetCache(c TotalsCache) {
	r.cache = c
}

// Vehicle returns the live vehicle for an entity ID, or nil.
func (r *Resolver) Vehicle(entityID string) *fleet.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vehicles[entityID]
}

// Vehicles returns a snapshot of all tracked vehicles.
func (r *Resolver) Vehicles() []*fleet.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*fleet.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out
}

// CategoryTotals returns the aggregate moved per category (sent plus
// received) for a live entity. Unknown entities, and entities that have
// moved nothing, yield an empty map rather than an error: "nothing to
// report" is a normal answer at this boundary.
func (r *Resolver) CategoryTotals(ctx context.Context, entityID string) map[cargo.Category]int {
	v := r.Vehicle(entityID)
	if v == nil {
		return map[cargo.Category]int{}
	}

	if r.cache != nil {
		if totals, ok := r.cache.GetTotals(ctx, entityID); ok {
			return totals
		}
	}

	totals := map[cargo.Category]int{}
	for _, c := range cargo.Categories {
		sum := v.Ledger.Sent().Total(ledger.Filter{Category: c}) +
			v.Ledger.Received().Total(ledger.Filter{Category: c})
		if sum != 0 {
			totals[c] = sum
		}
	}
	metrics.LedgerQueries.Inc()

	if r.cache != nil {
		r.cache.SetTotals(ctx, entityID, totals)
	}
	return totals
}
