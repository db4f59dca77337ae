// Package document maps byte offsets in a source file to line numbers.
package document

import "sort"

// Lines is the line table of a single document. Lines are 0-based.
type Lines struct {
	starts []int
	length int
}

// NewLines builds the line table for source.
// A trailing newline starts a final empty line, matching how editors number lines.
func NewLines(source []byte) *Lines {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{starts: starts, length: len(source)}
}

// Len returns the document length in bytes.
func (l *Lines) Len() int {
	return l.length
}

// LineCount returns the number of lines. An empty document has zero lines.
func (l *Lines) LineCount() int {
	if l.length == 0 {
		return 0
	}
	return len(l.starts)
}

// LineOf returns the line containing offset.
// Negative offsets return -1; offsets past the end map to the last line.
func (l *Lines) LineOf(offset int) int {
	if offset < 0 {
		return -1
	}
	// First start greater than offset, minus one.
	return sort.SearchInts(l.starts, offset+1) - 1
}

// LineStart returns the offset of the first byte of line.
func (l *Lines) LineStart(line int) int {
	if line < 0 || line >= len(l.starts) {
		return -1
	}
	return l.starts[line]
}

// LineEnd returns the offset just past the last content byte of line,
// excluding the line terminator.
func (l *Lines) LineEnd(line int) int {
	if line < 0 || line >= len(l.starts) {
		return -1
	}
	end := l.length
	if line+1 < len(l.starts) {
		end = l.starts[line+1] - 1
	}
	return end
}

// Valid reports whether line lies within the document.
func (l *Lines) Valid(line int) bool {
	return line >= 0 && line < l.LineCount()
}
