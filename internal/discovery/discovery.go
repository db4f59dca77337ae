// Package discovery finds the source files breakscan can analyze.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery walks a directory tree selecting files with glob patterns.
type FileDiscovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// New creates a discovery rooted at rootDir.
func New(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	var err error
	if fd.includePatterns, err = compile(includePatterns); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compile(ignorePatterns); err != nil {
		return nil, err
	}
	return fd, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// Discover returns the absolute-or-root-relative paths of matching files in walk order.
func (fd *FileDiscovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if fd.Matches(relPath) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Matches reports whether a root-relative, slash-separated path is included
// and not ignored.
func (fd *FileDiscovery) Matches(relPath string) bool {
	return !fd.shouldIgnore(relPath) && matchesAnyPattern(relPath, fd.includePatterns)
}

// SkipDir reports whether the directory at path, absolute or relative to
// the working directory, is excluded from discovery.
func (fd *FileDiscovery) SkipDir(path string) bool {
	relPath, err := filepath.Rel(fd.rootDir, path)
	if err != nil || relPath == "." {
		return false
	}
	return fd.shouldIgnore(filepath.ToSlash(relPath))
}

func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore the breakscan state directory
	if strings.HasPrefix(relPath, ".breakscan/") || relPath == ".breakscan" {
		return true
	}

	if matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	return matchesAnyPattern(relPath+"/**", fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Paths in the root also match "**/"-prefixed patterns, so "**/*.py"
// matches both "main.py" and "pkg/main.py".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if strings.Contains(path, "/") {
		return false
	}
	for _, cp := range patterns {
		if !strings.HasPrefix(cp.pattern, "**/") {
			continue
		}
		if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
			return true
		}
	}
	return false
}
