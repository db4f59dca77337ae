package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Include patterns select files at the root and in subdirectories
// - Ignore patterns skip whole directories
// - .breakscan is always ignored
// - Invalid glob patterns are rejected
// - SkipDir excludes ignored directories but never the root

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"Main.java",
		"pkg/util.py",
		"pkg/notes.md",
		"node_modules/dep/index.js",
		".breakscan/cache.java",
	)

	fd, err := New(root, []string{"**/*.java", "**/*.py", "**/*.js"}, []string{"node_modules/**"})
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.ElementsMatch(t, []string{"Main.java", "pkg/util.py"}, rel)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	fd, err := New("/", []string{"**/*.rs"}, []string{"target/**"})
	require.NoError(t, err)

	assert.True(t, fd.Matches("lib.rs"))
	assert.True(t, fd.Matches("src/lib.rs"))
	assert.False(t, fd.Matches("target/debug/build.rs"))
	assert.False(t, fd.Matches("README.md"))
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New("/", []string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestSkipDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := New(root, []string{"**/*.py"}, []string{"node_modules/**", "build/**"})
	require.NoError(t, err)

	assert.False(t, fd.SkipDir(root))
	assert.False(t, fd.SkipDir(filepath.Join(root, "pkg")))
	assert.True(t, fd.SkipDir(filepath.Join(root, "node_modules")))
	assert.True(t, fd.SkipDir(filepath.Join(root, "build")))
	assert.True(t, fd.SkipDir(filepath.Join(root, ".breakscan")))
}
