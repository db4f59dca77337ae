package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Option configures a file watcher.
type Option func(*fileWatcher)

// WithDebounce sets the quiet period before changes are reported.
func WithDebounce(d time.Duration) Option {
	return func(fw *fileWatcher) {
		if d > 0 {
			fw.debounceTime = d
		}
	}
}

// WithSkipDir excludes directories for which skip returns true, along with
// everything below them.
func WithSkipDir(skip func(dir string) bool) Option {
	return func(fw *fileWatcher) {
		fw.skipDir = skip
	}
}

// fileWatcher implements FileWatcher.
type fileWatcher struct {
	watcher      *fsnotify.Watcher
	extensions   map[string]bool // Extensions to monitor (.java, .py, etc.)
	skipDir      func(dir string) bool
	debounceTime time.Duration

	mu       sync.Mutex // Protects everything below
	callback func(files []string)
	paused   bool
	pending  map[string]struct{}
	timer    *time.Timer

	cancel   context.CancelFunc
	stopOnce sync.Once
	doneCh   chan struct{} // Closed when the event loop exits
}

// NewFileWatcher creates a watcher over dirs and all their subdirectories.
// Only files whose extension is listed are reported.
func NewFileWatcher(dirs []string, extensions []string, opts ...Option) (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fileWatcher{
		watcher:      watcher,
		extensions:   make(map[string]bool, len(extensions)),
		debounceTime: DefaultDebounce,
		pending:      make(map[string]struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, ext := range extensions {
		fw.extensions[ext] = true
	}
	for _, opt := range opts {
		opt(fw)
	}

	for _, dir := range dirs {
		if err := fw.watchTree(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Start begins delivering batches of changed files to callback.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	fw.mu.Lock()
	fw.callback = callback
	fw.mu.Unlock()

	ctx, fw.cancel = context.WithCancel(ctx)
	go fw.loop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.watcher.Close()
	})
	return err
}

// Pause holds back callbacks while changes keep accumulating.
func (fw *fileWatcher) Pause() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.paused = true
}

// Resume releases callbacks, flushing anything accumulated while paused.
func (fw *fileWatcher) Resume() {
	fw.mu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.mu.Unlock()

	if wasPaused {
		fw.flush()
	}
}

func (fw *fileWatcher) loop(ctx context.Context) {
	defer close(fw.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			fw.mu.Lock()
			if fw.timer != nil {
				fw.timer.Stop()
			}
			fw.mu.Unlock()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event, fire)

		case <-fire:
			fw.flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (fw *fileWatcher) handle(event fsnotify.Event, fire chan struct{}) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.watchTree(event.Name); err != nil {
				log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !fw.relevant(event) {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending[event.Name] = struct{}{}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounceTime, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

// flush hands pending changes to the callback unless paused.
func (fw *fileWatcher) flush() {
	fw.mu.Lock()
	if fw.paused || len(fw.pending) == 0 || fw.callback == nil {
		fw.mu.Unlock()
		return
	}

	files := make([]string, 0, len(fw.pending))
	for file := range fw.pending {
		files = append(files, file)
	}
	fw.pending = make(map[string]struct{})
	callback := fw.callback
	fw.mu.Unlock()

	callback(files)
}

// relevant reports whether event touches a monitored source file.
// Renames count because editors often save by renaming over the original.
func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return fw.extensions[filepath.Ext(event.Name)]
}

// watchTree adds root and every directory below it that is not skipped.
func (fw *fileWatcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && fw.skipDir != nil && fw.skipDir(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
