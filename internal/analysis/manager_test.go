package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/breakscan/internal/breakpoint"
	"github.com/mvp-joe/breakscan/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Manager:
// - Add stores a valid, enabled breakpoint with an absolute path
// - Add accepts a lambda ordinal offered for the line
// - Add rejects non-applicable lines with ErrNotApplicable
// - Add rejects unknown ordinals with ErrNoSuchVariant
// - Add surfaces storage.ErrDuplicate for the same target twice
// - List filters by file
// - Remove deletes and reports storage.ErrNotFound afterwards
// - Revalidate flips breakpoints invalid when their line stops qualifying
//   and valid again when it qualifies once more
// - Revalidate marks breakpoints in deleted files invalid

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(newTestService(t), storage.NewStoreWithDB(storage.NewTestDB(t)))
}

func TestManager_Add(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()
	path := writeFile(t, filepath.Join(t.TempDir(), "A.java"), javaSource)

	bp, err := m.Add(ctx, path, 8, breakpoint.LineOrdinal)
	require.NoError(t, err)
	assert.NotEmpty(t, bp.ID)
	assert.Equal(t, path, bp.FilePath)
	assert.Equal(t, 8, bp.Line)
	assert.True(t, bp.Valid)
	assert.True(t, bp.Enabled)

	lambda, err := m.Add(ctx, path, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, lambda.Ordinal)

	_, err = m.Add(ctx, path, 0, breakpoint.LineOrdinal)
	assert.ErrorIs(t, err, ErrNotApplicable)

	_, err = m.Add(ctx, path, 3, 7)
	assert.ErrorIs(t, err, ErrNoSuchVariant)

	_, err = m.Add(ctx, path, 8, 0)
	assert.ErrorIs(t, err, ErrNoSuchVariant, "line without lambdas has no ordinal 0")

	_, err = m.Add(ctx, path, 8, breakpoint.LineOrdinal)
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestManager_ListAndRemove(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()
	dir := t.TempDir()
	javaPath := writeFile(t, filepath.Join(dir, "A.java"), javaSource)
	pyPath := writeFile(t, filepath.Join(dir, "m.py"), pythonSource)

	_, err := m.Add(ctx, javaPath, 2, breakpoint.LineOrdinal)
	require.NoError(t, err)
	pyBP, err := m.Add(ctx, pyPath, 3, breakpoint.LineOrdinal)
	require.NoError(t, err)

	all, err := m.List(ctx, storage.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPy, err := m.List(ctx, storage.ListFilter{FilePath: pyPath})
	require.NoError(t, err)
	require.Len(t, onlyPy, 1)
	assert.Equal(t, pyBP.ID, onlyPy[0].ID)

	require.NoError(t, m.Remove(ctx, pyBP.ID))
	assert.ErrorIs(t, m.Remove(ctx, pyBP.ID), storage.ErrNotFound)
}

func TestManager_Revalidate(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()
	path := writeFile(t, filepath.Join(t.TempDir(), "m.py"), pythonSource)

	bp, err := m.Add(ctx, path, 3, breakpoint.LineOrdinal)
	require.NoError(t, err)

	changed, err := m.Revalidate(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, changed, "nothing changed on disk")

	// Line 3 becomes a def header
	writeFile(t, path, "import os\n\n\ndef f(a):\n    return a + 1\n")

	changed, err = m.Revalidate(ctx, []string{path})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, bp.ID, changed[0].ID)
	assert.False(t, changed[0].Valid)

	stored, err := m.List(ctx, storage.ListFilter{OnlyValid: true})
	require.NoError(t, err)
	assert.Empty(t, stored)

	writeFile(t, path, pythonSource)

	changed, err = m.Revalidate(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].Valid)
}

func TestManager_RevalidateDeletedFile(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()
	path := writeFile(t, filepath.Join(t.TempDir(), "A.java"), javaSource)

	_, err := m.Add(ctx, path, 3, 0)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	changed, err := m.Revalidate(ctx, nil)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.False(t, changed[0].Valid)
}
