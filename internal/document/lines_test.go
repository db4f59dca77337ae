package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for Lines:
// - Empty document has no lines and rejects every line number
// - LineOf maps offsets to lines, including newline bytes and past-the-end offsets
// - LineStart/LineEnd bracket line content without the terminator
// - Trailing newline yields a final empty line

func TestLines_Empty(t *testing.T) {
	t.Parallel()

	l := NewLines(nil)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.LineCount())
	assert.False(t, l.Valid(0))
	assert.Equal(t, -1, l.LineOf(-5))
}

func TestLines_LineOf(t *testing.T) {
	t.Parallel()

	l := NewLines([]byte("ab\ncd\n\nef"))
	assert.Equal(t, 4, l.LineCount())

	tests := []struct {
		offset int
		line   int
	}{
		{0, 0},
		{2, 0}, // newline belongs to the line it terminates
		{3, 1},
		{5, 1},
		{6, 2},
		{7, 3},
		{8, 3},
		{100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.line, l.LineOf(tt.offset), "offset %d", tt.offset)
	}
}

func TestLines_Bounds(t *testing.T) {
	t.Parallel()

	l := NewLines([]byte("ab\ncd\n"))
	assert.Equal(t, 3, l.LineCount())

	assert.Equal(t, 0, l.LineStart(0))
	assert.Equal(t, 2, l.LineEnd(0))
	assert.Equal(t, 3, l.LineStart(1))
	assert.Equal(t, 5, l.LineEnd(1))
	assert.Equal(t, 6, l.LineStart(2))
	assert.Equal(t, 6, l.LineEnd(2))

	assert.Equal(t, -1, l.LineStart(3))
	assert.Equal(t, -1, l.LineEnd(-1))
	assert.True(t, l.Valid(2))
	assert.False(t, l.Valid(3))
}
