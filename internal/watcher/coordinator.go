package watcher

import (
	"context"
	"log"
)

// WatchCoordinator routes file changes to the parse cache and the stored
// breakpoints.
type WatchCoordinator struct {
	files       FileWatcher
	cache       ParseCache
	breakpoints Revalidator
}

// NewWatchCoordinator creates a new watch coordinator.
func NewWatchCoordinator(files FileWatcher, cache ParseCache, breakpoints Revalidator) *WatchCoordinator {
	return &WatchCoordinator{
		files:       files,
		cache:       cache,
		breakpoints: breakpoints,
	}
}

// Start begins watching and blocks until ctx is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, func(files []string) { c.handleFileChange(ctx, files) }); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		log.Printf("Warning: file watcher stop failed: %v", err)
	}
}

// handleFileChange drops cached parses and rechecks breakpoints in files.
func (c *WatchCoordinator) handleFileChange(ctx context.Context, files []string) {
	if len(files) == 0 {
		return
	}

	for _, file := range files {
		c.cache.Invalidate(file)
	}

	changed, err := c.breakpoints.Revalidate(ctx, files)
	if err != nil {
		log.Printf("Error: revalidation failed: %v", err)
		return
	}

	for _, bp := range changed {
		state := "invalid"
		if bp.Valid {
			state = "valid"
		}
		log.Printf("Breakpoint %s at %s:%d is now %s", bp.ID, bp.FilePath, bp.Line+1, state)
	}
	log.Printf("✓ Rechecked %d file(s), %d breakpoint(s) changed", len(files), len(changed))
}
