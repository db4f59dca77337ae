package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with the full schema.
// Cleanup is registered with t.Cleanup().
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Every pooled connection to :memory: would be a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, CreateSchema(db))
	return db
}

// NewTestStore returns a Store backed by a file in t.TempDir().
func NewTestStore(t testing.TB) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "breakpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}
