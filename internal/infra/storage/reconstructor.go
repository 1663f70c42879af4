// Package storage - reconstructor.go
// Rebuilds cargo ledgers from the durable transfer log. This is the load
// half of persistence: state = f(rows), with every entry's category
// re-derived through the mapper rather than read from disk.
package storage

import (
	"context"
	"fmt"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/ledger"
)

// Reconstructor rebuilds ledgers from persisted transfer rows.
type Reconstructor struct {
	repo TransferRepository
}

// NewReconstructor creates a new ledger reconstructor.
func NewReconstructor(repo TransferRepository) *Reconstructor {
	return &Reconstructor{repo: repo}
}

// RebuildLedger loads every persisted row for one entity and replays it
// onto a fresh ledger in append order.
func (rc *Reconstructor) RebuildLedger(ctx context.Context, entityID string) (*ledger.Ledger, error) {
	rows, err := rc.repo.GetByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfers for %s: %w", entityID, err)
	}

	var state ledger.State
	for _, row := range rows {
		rec := ledger.TransferRecord{
			Timestamp:   row.Timestamp,
			Destination: cargo.Destination(row.Destination),
			Resource:    cargo.Resource(row.Resource),
			Amount:      row.Amount,
		}
		switch row.Direction {
		case DirectionSent:
			state.Sent = append(state.Sent, rec)
		case DirectionReceived:
			state.Received = append(state.Received, rec)
		default:
			return nil, fmt.Errorf("transfer row for %s has unknown direction %q", entityID, row.Direction)
		}
	}

	l := ledger.New()
	l.RestoreState(state)
	return l, nil
}

// RebuildAll rebuilds a ledger for every entity present in the store.
func (rc *Reconstructor) RebuildAll(ctx context.Context) (map[string]*ledger.Ledger, error) {
	ids, err := rc.repo.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list persisted entities: %w", err)
	}

	out := make(map[string]*ledger.Ledger, len(ids))
	for _, id := range ids {
		l, err := rc.RebuildLedger(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = l
	}
	return out, nil
}
