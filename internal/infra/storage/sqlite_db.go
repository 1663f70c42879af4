package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schema
// for the durable transfer log.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		// seq preserves append order per entity and direction; no category
		// column exists anywhere in the schema.
		`CREATE TABLE IF NOT EXISTS transfers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			destination TEXT NOT NULL,
			resource TEXT NOT NULL,
			amount INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_entity ON transfers(entity_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_entity_dir ON transfers(entity_id, direction);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
