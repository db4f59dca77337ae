// Package syntax adapts tree-sitter trees to the node model used by the
// breakpoint applicability scanner.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/mvp-joe/breakscan/internal/document"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	// ErrUnsupportedLanguage is returned for files no grammar is registered for.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrClosed is returned when reading a file whose tree has been released.
	ErrClosed = errors.New("syntax tree closed")
)

// File is a parsed source file.
//
// Nodes handed out by a File stay valid until Close. Readers must go through
// Read so that Close waits for in-flight scans to finish.
type File struct {
	Path     string
	Language *Language

	source []byte
	lines  *document.Lines

	mu         sync.RWMutex
	tree       *sitter.Tree
	generation atomic.Uint64
}

// Parse parses source with the grammar selected by path's extension.
func Parse(ctx context.Context, path string, source []byte) (*File, error) {
	lang, ok := ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, filepath.Ext(path))
	}
	return ParseLanguage(ctx, lang, path, source)
}

// ParseLanguage parses source with an explicit language.
func ParseLanguage(ctx context.Context, lang *Language, path string, source []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang.grammar)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", lang.Name, path)
	}

	f := &File{
		Path:     path,
		Language: lang,
		source:   source,
		lines:    document.NewLines(source),
		tree:     tree,
	}
	f.generation.Store(1)
	return f, nil
}

// Lines returns the file's line table.
func (f *File) Lines() *document.Lines {
	return f.lines
}

// Read runs fn while holding the file's read lock.
func (f *File) Read(fn func() error) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.tree == nil {
		return ErrClosed
	}
	return fn()
}

// Close releases the tree. Every node obtained earlier becomes invalid.
func (f *File) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.tree == nil {
		return
	}
	f.generation.Add(1)
	f.tree.Close()
	f.tree = nil
}

// Root returns the file node, or nil once closed.
func (f *File) Root() *Node {
	if f.tree == nil {
		return nil
	}
	return f.wrap(f.tree.RootNode())
}

// NodeAt returns the smallest node covering offset.
func (f *File) NodeAt(offset int) *Node {
	if f.tree == nil || offset < 0 || offset >= len(f.source) {
		return nil
	}
	return f.wrap(f.tree.RootNode().DescendantForByteRange(uint(offset), uint(offset+1)))
}

// NodesOnLine walks line left to right. Runs of blanks come back as
// whitespace nodes; everywhere else the smallest node at the offset is
// yielded and the walk resumes at its end.
func (f *File) NodesOnLine(line int) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if f.tree == nil || !f.lines.Valid(line) {
			return
		}

		root := f.tree.RootNode()
		end := f.lines.LineEnd(line)
		for offset := f.lines.LineStart(line); offset < end; {
			if isBlank(f.source[offset]) {
				stop := offset
				for stop < end && isBlank(f.source[stop]) {
					stop++
				}
				ws := &Node{
					file:  f,
					gen:   f.generation.Load(),
					start: offset,
					end:   stop,
					outer: root.DescendantForByteRange(uint(offset), uint(stop)),
				}
				if !yield(ws) {
					return
				}
				offset = stop
				continue
			}

			leaf := root.DescendantForByteRange(uint(offset), uint(offset+1))
			if leaf == nil {
				return
			}
			if !yield(f.wrap(leaf)) {
				return
			}

			next := int(leaf.EndByte())
			if next <= offset {
				next = offset + 1
			}
			offset = next
		}
	}
}

func (f *File) wrap(n *sitter.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{
		file:  f,
		gen:   f.generation.Load(),
		ts:    n,
		start: int(n.StartByte()),
		end:   int(n.EndByte()),
	}
}

func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}
