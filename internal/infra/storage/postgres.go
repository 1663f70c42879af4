// Package storage - postgres.go
// PostgreSQL implementation of TransferRepository for multi-node
// deployments. The caller supplies an opened *sql.DB with a registered
// driver.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresTransferRepository implements TransferRepository using PostgreSQL.
type PostgresTransferRepository struct {
	db *sql.DB
}

// NewPostgresTransferRepository creates a new PostgreSQL transfer repository.
func NewPostgresTransferRepository(db *sql.DB) *PostgresTransferRepository {
	return &PostgresTransferRepository{db: db}
}

// EnsureSchema creates the transfers table if it does not exist.
func (r *PostgresTransferRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS transfers (
			seq BIGSERIAL PRIMARY KEY,
			entity_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			destination TEXT NOT NULL,
			resource TEXT NOT NULL,
			amount INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_transfers_entity ON transfers(entity_id);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Append inserts one row into the durable transfer log.
func (r *PostgresTransferRepository) Append(ctx context.Context, row TransferRow) error {
	query := `
		INSERT INTO transfers (entity_id, direction, timestamp, destination, resource, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		row.EntityID, row.Direction, row.Timestamp, row.Destination, row.Resource, row.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to append transfer: %w", err)
	}
	return nil
}

// GetByEntity retrieves every row for an entity in append order.
func (r *PostgresTransferRepository) GetByEntity(ctx context.Context, entityID string) ([]TransferRow, error) {
	query := `SELECT entity_id, direction, timestamp, destination, resource, amount FROM transfers WHERE entity_id = $1 ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransferRow
	for rows.Next() {
		var t TransferRow
		if err := rows.Scan(&t.EntityID, &t.Direction, &t.Timestamp, &t.Destination, &t.Resource, &t.Amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Entities lists every entity ID with at least one persisted row.
func (r *PostgresTransferRepository) Entities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT entity_id FROM transfers ORDER BY entity_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
