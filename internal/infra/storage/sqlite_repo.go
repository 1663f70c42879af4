package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteTransferRepository implements TransferRepository for SQLite.
type SQLiteTransferRepository struct {
	db *sql.DB
}

func NewSQLiteTransferRepository(db *sql.DB) *SQLiteTransferRepository {
	return &SQLiteTransferRepository{db: db}
}

func (r *SQLiteTransferRepository) Append(ctx context.Context, row TransferRow) error {
	query := `
		INSERT INTO transfers (entity_id, direction, timestamp, destination, resource, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		row.EntityID, row.Direction, row.Timestamp, row.Destination, row.Resource, row.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to append transfer: %w", err)
	}
	return nil
}

func (r *SQLiteTransferRepository) GetByEntity(ctx context.Context, entityID string) ([]TransferRow, error) {
	query := `SELECT entity_id, direction, timestamp, destination, resource, amount FROM transfers WHERE entity_id = ? ORDER BY seq ASC`
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

func (r *SQLiteTransferRepository) Entities(ctx context.Context) ([]string, error) {
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
