package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is the version written to store_metadata by CreateSchema.
const SchemaVersion = "1"

const createBreakpointsTable = `
CREATE TABLE IF NOT EXISTS breakpoints (
	breakpoint_id TEXT PRIMARY KEY,
	file_path     TEXT NOT NULL,
	line          INTEGER NOT NULL,
	ordinal       INTEGER NOT NULL DEFAULT -1,
	enabled       INTEGER NOT NULL DEFAULT 1,
	valid         INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	UNIQUE (file_path, line, ordinal)
)`

const createStoreMetadataTable = `
CREATE TABLE IF NOT EXISTS store_metadata (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_breakpoints_file ON breakpoints(file_path)",
	"CREATE INDEX IF NOT EXISTS idx_breakpoints_valid ON breakpoints(valid)",
}

// CreateSchema creates all tables and indexes in one transaction and records
// the schema version. Safe to call on an existing database.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"breakpoints", createBreakpointsTable},
		{"store_metadata", createStoreMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	bootstrapSQL := `
		INSERT INTO store_metadata (key, value, updated_at) VALUES ('schema_version', ?, ?)
		ON CONFLICT(key) DO NOTHING
	`
	if _, err := tx.Exec(bootstrapSQL, SchemaVersion, now); err != nil {
		return fmt.Errorf("failed to bootstrap store_metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

// GetSchemaVersion retrieves the schema version from store_metadata.
// Returns "0" if the table doesn't exist (new database).
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='store_metadata'").Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check store_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM store_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("schema_version key not found in store_metadata")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}
