package watcher

import (
	"context"

	"github.com/mvp-joe/breakscan/internal/storage"
)

// FileWatcher monitors source files for changes with debouncing and pause/resume support.
type FileWatcher interface {
	// Start begins watching source directories, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
	Resume()
}

// ParseCache drops stale parses of changed files.
type ParseCache interface {
	Invalidate(path string)
}

// Revalidator rechecks the breakpoints stored for changed files and
// returns those whose validity flipped.
type Revalidator interface {
	Revalidate(ctx context.Context, files []string) ([]*storage.Breakpoint, error)
}
