// Package storage persists breakpoints in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no breakpoint has the requested ID.
	ErrNotFound = errors.New("breakpoint not found")

	// ErrDuplicate is returned when a breakpoint already exists at the same
	// file, line and ordinal.
	ErrDuplicate = errors.New("breakpoint already exists")
)

var breakpointColumns = []string{
	"breakpoint_id", "file_path", "line", "ordinal", "enabled", "valid", "created_at", "updated_at",
}

// Store reads and writes breakpoints.
type Store struct {
	db     *sql.DB
	ownsDB bool // true if we opened the connection, false if shared
}

// Open opens (creating if needed) the breakpoint database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, ownsDB: true}, nil
}

// NewStoreWithDB creates a Store on an existing connection whose schema has
// already been created. The caller owns the connection.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the connection if the store opened it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Add inserts bp, assigning an ID and timestamps. The stored copy is returned.
func (s *Store) Add(ctx context.Context, bp Breakpoint) (*Breakpoint, error) {
	now := time.Now().UTC().Truncate(time.Second)
	bp.ID = uuid.New().String()
	bp.CreatedAt = now
	bp.UpdatedAt = now

	_, err := sq.Insert("breakpoints").
		Columns(breakpointColumns...).
		Values(
			bp.ID, bp.FilePath, bp.Line, bp.Ordinal,
			boolToInt(bp.Enabled), boolToInt(bp.Valid),
			now.Format(time.RFC3339), now.Format(time.RFC3339),
		).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: %s:%d", ErrDuplicate, bp.FilePath, bp.Line+1)
		}
		return nil, fmt.Errorf("insert breakpoint: %w", err)
	}
	return &bp, nil
}

// Get returns the breakpoint with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Breakpoint, error) {
	row := sq.Select(breakpointColumns...).
		From("breakpoints").
		Where(sq.Eq{"breakpoint_id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)

	bp, err := scanBreakpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get breakpoint: %w", err)
	}
	return bp, nil
}

// List returns breakpoints matching filter ordered by file and line.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Breakpoint, error) {
	query := sq.Select(breakpointColumns...).
		From("breakpoints").
		OrderBy("file_path", "line", "ordinal")

	if filter.FilePath != "" {
		query = query.Where(sq.Eq{"file_path": filter.FilePath})
	}
	if filter.OnlyValid {
		query = query.Where(sq.Eq{"valid": 1})
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query breakpoints: %w", err)
	}
	defer rows.Close()

	var breakpoints []*Breakpoint
	for rows.Next() {
		bp, err := scanBreakpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan breakpoint: %w", err)
		}
		breakpoints = append(breakpoints, bp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breakpoints: %w", err)
	}
	return breakpoints, nil
}

// Files returns the distinct files that have breakpoints.
func (s *Store) Files(ctx context.Context) ([]string, error) {
	rows, err := sq.Select("DISTINCT file_path").
		From("breakpoints").
		OrderBy("file_path").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query breakpoint files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan file path: %w", err)
		}
		files = append(files, path)
	}
	return files, rows.Err()
}

// Remove deletes the breakpoint with the given ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := sq.Delete("breakpoints").
		Where(sq.Eq{"breakpoint_id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete breakpoint %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

// SetValid records whether the breakpoint's line still accepts breakpoints.
func (s *Store) SetValid(ctx context.Context, id string, valid bool) error {
	return s.update(ctx, id, "valid", boolToInt(valid))
}

// SetEnabled enables or disables the breakpoint.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return s.update(ctx, id, "enabled", boolToInt(enabled))
}

func (s *Store) update(ctx context.Context, id, column string, value any) error {
	res, err := sq.Update("breakpoints").
		Set(column, value).
		Set("updated_at", time.Now().UTC().Format(time.RFC3339)).
		Where(sq.Eq{"breakpoint_id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update breakpoint %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBreakpoint(row rowScanner) (*Breakpoint, error) {
	var (
		bp               Breakpoint
		enabled, valid   int
		created, updated string
	)
	if err := row.Scan(&bp.ID, &bp.FilePath, &bp.Line, &bp.Ordinal, &enabled, &valid, &created, &updated); err != nil {
		return nil, err
	}
	bp.Enabled = enabled != 0
	bp.Valid = valid != 0

	var err error
	if bp.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	if bp.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updated, err)
	}
	return &bp, nil
}
