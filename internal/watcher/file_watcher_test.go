package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher creates watcher successfully with valid directories
// - NewFileWatcher returns error with invalid directory
// - Single file change fires callback after debounce
// - Multiple rapid changes are batched and deduplicated into one callback
// - Pause/Resume behavior (accumulate during pause, fire on resume)
// - File deleted triggers callback
// - Directory added later is watched
// - Skipped directories are not watched
// - Extension filtering (only monitored extensions trigger callback)
// - Stop() is idempotent and safe before Start()
// - Start with nil callback is a no-op

const testDebounce = 100 * time.Millisecond

// batchRecorder collects callback batches and signals each one.
type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
	called  chan struct{}
}

func newBatchRecorder() *batchRecorder {
	return &batchRecorder{called: make(chan struct{}, 10)}
}

func (r *batchRecorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.called <- struct{}{}
}

func (r *batchRecorder) wait(t *testing.T, timeout time.Duration) []string {
	t.Helper()
	select {
	case <-r.called:
	case <-time.After(timeout):
		t.Fatal("Callback not called after timeout")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[len(r.batches)-1]
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func startWatcher(t *testing.T, dir string, opts ...Option) (FileWatcher, *batchRecorder) {
	t.Helper()
	opts = append([]Option{WithDebounce(testDebounce)}, opts...)
	w, err := NewFileWatcher([]string{dir}, []string{".java", ".py"}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	rec := newBatchRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))

	// Wait for watcher to initialize
	time.Sleep(50 * time.Millisecond)
	return w, rec
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, []string{".java"})
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Stop())
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "nonexistent")}, []string{".java"})
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	file := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(file, []byte("class A {}"), 0644))

	files := rec.wait(t, 2*time.Second)
	assert.Equal(t, []string{file}, files, "create and write of one file arrive once")
}

func TestFileWatcher_BatchesRapidChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	file1 := filepath.Join(dir, "a.py")
	file2 := filepath.Join(dir, "b.py")
	require.NoError(t, os.WriteFile(file1, []byte("x = 1\n"), 0644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(file2, []byte("y = 1\n"), 0644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(file1, []byte("x = 2\n"), 0644))

	files := rec.wait(t, 2*time.Second)
	assert.ElementsMatch(t, []string{file1, file2}, files)
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, rec := startWatcher(t, dir)

	w.Pause()

	pausedFile := filepath.Join(dir, "paused.py")
	require.NoError(t, os.WriteFile(pausedFile, []byte("pass\n"), 0644))

	// Wait beyond debounce period - callback should NOT fire
	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count(), "No callbacks should fire while paused")

	w.Resume()

	files := rec.wait(t, 500*time.Millisecond)
	assert.Contains(t, files, pausedFile)
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "gone.py")
	require.NoError(t, os.WriteFile(file, []byte("pass\n"), 0644))

	_, rec := startWatcher(t, dir)
	require.NoError(t, os.Remove(file))

	files := rec.wait(t, 2*time.Second)
	assert.Contains(t, files, file)
}

func TestFileWatcher_DirectoryAdded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(50 * time.Millisecond)

	file := filepath.Join(sub, "m.py")
	require.NoError(t, os.WriteFile(file, []byte("pass\n"), 0644))

	files := rec.wait(t, 2*time.Second)
	assert.Contains(t, files, file)
}

func TestFileWatcher_SkipDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	skipped := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(skipped, 0755))

	_, rec := startWatcher(t, dir, WithSkipDir(func(path string) bool {
		return strings.HasSuffix(path, "node_modules")
	}))

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "dep.py"), []byte("pass\n"), 0644))
	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count())

	kept := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(kept, []byte("pass\n"), 0644))
	assert.Equal(t, []string{kept}, rec.wait(t, 2*time.Second))
}

func TestFileWatcher_ExtensionFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	time.Sleep(4 * testDebounce)
	assert.Equal(t, 0, rec.count(), "unmonitored extension")

	file := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(file, []byte("class A {}"), 0644))
	assert.Equal(t, []string{file}, rec.wait(t, 2*time.Second))
}

func TestFileWatcher_StopBehaviour(t *testing.T) {
	t.Parallel()

	t.Run("stop before start", func(t *testing.T) {
		t.Parallel()
		w, err := NewFileWatcher([]string{t.TempDir()}, []string{".py"})
		require.NoError(t, err)
		assert.NoError(t, w.Stop())
		assert.NoError(t, w.Stop())
	})

	t.Run("concurrent stop", func(t *testing.T) {
		t.Parallel()
		w, err := NewFileWatcher([]string{t.TempDir()}, []string{".py"})
		require.NoError(t, err)
		require.NoError(t, w.Start(context.Background(), func([]string) {}))

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.Stop()
			}()
		}
		wg.Wait()
	})

	t.Run("nil callback", func(t *testing.T) {
		t.Parallel()
		w, err := NewFileWatcher([]string{t.TempDir()}, []string{".py"})
		require.NoError(t, err)
		assert.NoError(t, w.Start(context.Background(), nil))
		assert.NoError(t, w.Stop())
	})
}
