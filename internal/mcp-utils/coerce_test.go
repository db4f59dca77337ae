package mcputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for BindArguments:
// - Native JSON values bind directly (float64 numbers into ints)
// - String numbers, booleans and JSON arrays are converted
// - Pointer fields stay nil when absent and bind when present
// - Comma-separated strings fall back to slices
// - Unconvertible values produce an error

// mockArgumentGetter implements ArgumentGetter for testing
type mockArgumentGetter struct {
	args map[string]interface{}
}

func (m *mockArgumentGetter) GetArguments() map[string]interface{} {
	return m.args
}

type sampleRequest struct {
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Ordinal *int     `json:"ordinal"`
	Valid   bool     `json:"only_valid"`
	Tags    []string `json:"tags"`
}

func TestBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("native values", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := BindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"file":       "A.java",
			"line":       float64(12),
			"only_valid": true,
			"tags":       []interface{}{"a", "b"},
		}}, &req)
		require.NoError(t, err)

		assert.Equal(t, "A.java", req.File)
		assert.Equal(t, 12, req.Line)
		assert.True(t, req.Valid)
		assert.Equal(t, []string{"a", "b"}, req.Tags)
		assert.Nil(t, req.Ordinal)
	})

	t.Run("stringly typed values", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := BindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"line":       " 7 ",
			"ordinal":    "-1",
			"only_valid": "true",
			"tags":       `["x", "y"]`,
		}}, &req)
		require.NoError(t, err)

		assert.Equal(t, 7, req.Line)
		require.NotNil(t, req.Ordinal)
		assert.Equal(t, -1, *req.Ordinal)
		assert.True(t, req.Valid)
		assert.Equal(t, []string{"x", "y"}, req.Tags)
	})

	t.Run("comma separated fallback", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := BindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"tags": "go,py",
		}}, &req)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "py"}, req.Tags)
	})

	t.Run("unconvertible value", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := BindArguments(&mockArgumentGetter{args: map[string]interface{}{
			"line": "twelve",
		}}, &req)
		assert.Error(t, err)
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		require.NoError(t, BindArguments(&mockArgumentGetter{}, &req))
		assert.Zero(t, req.Line)
	})
}
