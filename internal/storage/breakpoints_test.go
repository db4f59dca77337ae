package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Store:
// - Add assigns an ID and timestamps and Get round-trips the row
// - Adding the same file/line/ordinal twice fails with ErrDuplicate
// - Different ordinals on the same line coexist
// - List orders by file then line, filters by file and validity
// - SetValid/SetEnabled update flags; unknown IDs return ErrNotFound
// - Remove deletes; removing twice returns ErrNotFound
// - Files lists distinct paths
// - Schema is idempotent and versioned

func TestStore_AddGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStoreWithDB(NewTestDB(t))

	bp, err := store.Add(ctx, Breakpoint{FilePath: "/src/A.java", Line: 4, Ordinal: -1, Enabled: true, Valid: true})
	require.NoError(t, err)
	assert.NotEmpty(t, bp.ID)
	assert.False(t, bp.CreatedAt.IsZero())

	got, err := store.Get(ctx, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, bp.FilePath, got.FilePath)
	assert.Equal(t, 4, got.Line)
	assert.Equal(t, -1, got.Ordinal)
	assert.True(t, got.Enabled)
	assert.True(t, got.Valid)
	assert.True(t, bp.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStoreWithDB(NewTestDB(t))

	_, err := store.Add(ctx, Breakpoint{FilePath: "a.py", Line: 1, Ordinal: -1})
	require.NoError(t, err)

	_, err = store.Add(ctx, Breakpoint{FilePath: "a.py", Line: 1, Ordinal: -1})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Add(ctx, Breakpoint{FilePath: "a.py", Line: 1, Ordinal: 0})
	assert.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStoreWithDB(NewTestDB(t))

	for _, bp := range []Breakpoint{
		{FilePath: "b.rs", Line: 3, Ordinal: -1, Valid: true},
		{FilePath: "a.rs", Line: 9, Ordinal: -1, Valid: false},
		{FilePath: "a.rs", Line: 2, Ordinal: -1, Valid: true},
	} {
		_, err := store.Add(ctx, bp)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a.rs", all[0].FilePath)
	assert.Equal(t, 2, all[0].Line)
	assert.Equal(t, 9, all[1].Line)
	assert.Equal(t, "b.rs", all[2].FilePath)

	inA, err := store.List(ctx, ListFilter{FilePath: "a.rs"})
	require.NoError(t, err)
	assert.Len(t, inA, 2)

	valid, err := store.List(ctx, ListFilter{OnlyValid: true})
	require.NoError(t, err)
	assert.Len(t, valid, 2)

	files, err := store.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rs", "b.rs"}, files)
}

func TestStore_UpdateAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewTestStore(t)

	bp, err := store.Add(ctx, Breakpoint{FilePath: "m.rb", Line: 0, Ordinal: -1, Enabled: true, Valid: true})
	require.NoError(t, err)

	require.NoError(t, store.SetValid(ctx, bp.ID, false))
	require.NoError(t, store.SetEnabled(ctx, bp.ID, false))

	got, err := store.Get(ctx, bp.ID)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.False(t, got.Enabled)

	require.NoError(t, store.Remove(ctx, bp.ID))
	assert.ErrorIs(t, store.Remove(ctx, bp.ID), ErrNotFound)

	_, err = store.Get(ctx, bp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.SetValid(ctx, "missing", true), ErrNotFound)
}

func TestCreateSchema_Idempotent(t *testing.T) {
	t.Parallel()

	db := NewTestDB(t)
	require.NoError(t, CreateSchema(db))

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}
