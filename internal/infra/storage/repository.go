// Package storage provides the persistence layer for cargo ledgers.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// Direction labels which of an entity's two logs a row belongs to.
const (
	DirectionSent     = "SENT"
	DirectionReceived = "RECEIVED"
)

// TransferRow mirrors one ledger entry for persistence. There is no
// category column on purpose: the category is derived data and is always
// recomputed from the resource kind on load.
type TransferRow struct {
	EntityID    string    `json:"entity_id" db:"entity_id"`
	Direction   string    `json:"direction" db:"direction"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	Destination string    `json:"destination" db:"destination"`
	Resource    string    `json:"resource" db:"resource"`
	Amount      int       `json:"amount" db:"amount"`
}

// TransferRepository defines the interface for transfer persistence.
// The domain uses ledger.State; the adapters in this package translate.
type TransferRepository interface {
	// Append adds one row to the durable transfer log.
	Append(ctx context.Context, row TransferRow) error

	// GetByEntity retrieves every row for an entity in append order.
	GetByEntity(ctx context.Context, entityID string) ([]TransferRow, error)

	// Entities lists every entity ID with at least one persisted row.
	Entities(ctx context.Context) ([]string, error)
}
