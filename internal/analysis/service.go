// Package analysis answers breakpoint questions about files on disk.
//
// Parsed files are cached by absolute path and content hash. When a file
// changes its cached tree is replaced and closed, so nodes from the old
// parse stop reporting themselves as valid.
package analysis

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"github.com/mvp-joe/breakscan/internal/breakpoint"
	"github.com/mvp-joe/breakscan/internal/config"
	"github.com/mvp-joe/breakscan/internal/discovery"
	"github.com/mvp-joe/breakscan/internal/syntax"
	"golang.org/x/sync/errgroup"
)

const maxVariantText = 80

// cachedFile is a parse of one version of a file.
type cachedFile struct {
	file *syntax.File
	hash [sha256.Size]byte
}

// VariantInfo describes a breakpoint variant in terms that outlive the parse.
type VariantInfo struct {
	Kind      breakpoint.VariantKind `json:"kind"`
	Ordinal   int                    `json:"ordinal"`
	StartLine int                    `json:"start_line"` // 0-based
	EndLine   int                    `json:"end_line"`   // 0-based
	Text      string                 `json:"text"`
}

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path  string `json:"path"`
	Lines []int  `json:"lines"` // 0-based applicable lines
	Error string `json:"error,omitempty"`
}

// Service parses and caches source files and runs the applicability scanner
// over them. It is safe for concurrent use.
type Service struct {
	cache   otter.Cache[string, *cachedFile]
	workers int
	include []string
	ignore  []string
}

// NewService creates a Service sized by cfg.
func NewService(cfg *config.Config) (*Service, error) {
	builder := otter.MustBuilder[string, *cachedFile](cfg.Cache.MaxFiles).
		DeletionListener(func(_ string, cf *cachedFile, _ otter.DeletionCause) {
			cf.file.Close()
		})

	var (
		cache otter.Cache[string, *cachedFile]
		err   error
	)
	if cfg.Cache.TTLMinutes > 0 {
		cache, err = builder.WithTTL(time.Duration(cfg.Cache.TTLMinutes) * time.Minute).Build()
	} else {
		cache, err = builder.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}

	return &Service{
		cache:   cache,
		workers: cfg.Scan.Workers,
		include: cfg.Paths.Include,
		ignore:  cfg.Paths.Ignore,
	}, nil
}

// Close releases every cached tree.
func (s *Service) Close() {
	s.cache.Range(func(_ string, cf *cachedFile) bool {
		cf.file.Close()
		return true
	})
	s.cache.Close()
}

// Invalidate drops the cached parse of path.
func (s *Service) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	s.cache.Delete(abs)
}

// Check reports whether a breakpoint may be placed on the 0-based line.
// Lines outside the file are not applicable.
func (s *Service) Check(ctx context.Context, path string, line int) (bool, error) {
	var ok bool
	err := s.withFile(ctx, path, func(f *syntax.File) error {
		ok = breakpoint.IsApplicable(f, line)
		return nil
	})
	return ok, err
}

// Lines returns every applicable 0-based line of path.
func (s *Service) Lines(ctx context.Context, path string) ([]int, error) {
	var lines []int
	err := s.withFile(ctx, path, func(f *syntax.File) error {
		lines = breakpoint.ApplicableLines(f)
		return nil
	})
	return lines, err
}

// Variants lists the breakpoint variants for the 0-based line.
func (s *Service) Variants(ctx context.Context, path string, line int) ([]VariantInfo, error) {
	var infos []VariantInfo
	err := s.withFile(ctx, path, func(f *syntax.File) error {
		for _, v := range breakpoint.Variants(f, line) {
			infos = append(infos, VariantInfo{
				Kind:      v.Kind,
				Ordinal:   v.Ordinal,
				StartLine: v.Anchor.StartLine(),
				EndLine:   v.Anchor.EndLine(),
				Text:      summarize(v.Anchor.Text()),
			})
		}
		return nil
	})
	return infos, err
}

// ScanTree finds source files under root and collects their applicable
// lines with a bounded pool of workers. Files that fail to parse are
// reported in their FileResult; only cancellation aborts the scan.
func (s *Service) ScanTree(ctx context.Context, root string, reporter ProgressReporter) ([]FileResult, error) {
	if reporter == nil {
		reporter = &NoOpProgressReporter{}
	}
	start := time.Now()

	fd, err := discovery.New(root, s.include, s.ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	reporter.OnDiscoveryStart()
	files, err := fd.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	reporter.OnDiscoveryComplete(len(files))

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			lines, err := s.Lines(gctx, path)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			results[i] = FileResult{Path: path, Lines: lines}
			if err != nil {
				results[i].Error = err.Error()
			}
			reporter.OnFileScanned(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &ScanStats{Files: len(results), Duration: time.Since(start)}
	for _, r := range results {
		if r.Error != "" {
			stats.FailedFiles++
		}
		stats.ApplicableLines += len(r.Lines)
	}
	reporter.OnComplete(stats)

	return results, nil
}

// withFile runs fn on the current parse of path under its read lock. A parse
// closed between lookup and lock is retried once against a fresh parse.
func (s *Service) withFile(ctx context.Context, path string, fn func(*syntax.File) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := s.load(ctx, abs)
		if err != nil {
			return err
		}

		err = f.Read(func() error { return fn(f) })
		if !errors.Is(err, syntax.ErrClosed) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", abs, syntax.ErrClosed)
}

// load returns the cached parse of abs, reparsing when the content changed.
func (s *Service) load(ctx context.Context, abs string) (*syntax.File, error) {
	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", abs, err)
	}
	hash := sha256.Sum256(source)

	if cf, ok := s.cache.Get(abs); ok && cf.hash == hash {
		return cf.file, nil
	}

	f, err := syntax.Parse(ctx, abs, source)
	if err != nil {
		return nil, err
	}
	s.cache.Set(abs, &cachedFile{file: f, hash: hash})
	return f, nil
}

// summarize collapses whitespace and shortens text for display.
func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxVariantText {
		return string(r[:maxVariantText-3]) + "..."
	}
	return text
}
