package watcher

import (
	"fmt"
	"time"

	"github.com/mvp-joe/breakscan/internal/config"
	"github.com/mvp-joe/breakscan/internal/discovery"
)

// NewProjectWatcher watches the source files of the project at root,
// skipping the directories its ignore patterns exclude.
func NewProjectWatcher(root string, cfg *config.Config) (FileWatcher, error) {
	fd, err := discovery.New(root, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	return NewFileWatcher(
		[]string{root},
		cfg.GetSourceExtensions(),
		WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
		WithSkipDir(fd.SkipDir),
	)
}
