package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/mvp-joe/breakscan/internal/storage"
	"github.com/mvp-joe/breakscan/internal/syntax"
)

var (
	errMissingParam = errors.New("missing required parameter")
	errOutsideRoot  = errors.New("path is outside project root")
	errInvalidLine  = errors.New("invalid line: lines start at 1")
)

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// toolError turns user errors into tool results the model can read and
// passes system errors through.
func toolError(err error) (*mcp.CallToolResult, error) {
	if isUserError(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// isUserError reports whether err was caused by the request rather than
// by the server.
func isUserError(err error) bool {
	return errors.Is(err, errMissingParam) ||
		errors.Is(err, errOutsideRoot) ||
		errors.Is(err, errInvalidLine) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syntax.ErrUnsupportedLanguage) ||
		errors.Is(err, analysis.ErrNotApplicable) ||
		errors.Is(err, analysis.ErrNoSuchVariant) ||
		errors.Is(err, storage.ErrDuplicate) ||
		errors.Is(err, storage.ErrNotFound)
}

// resolvePath resolves a request path against root and keeps it inside root.
func resolvePath(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: file", errMissingParam)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}
	return path, nil
}

// toLine converts a 1-based request line to a 0-based one.
func toLine(line int) (int, error) {
	if line < 1 {
		return 0, fmt.Errorf("%w, got %d", errInvalidLine, line)
	}
	return line - 1, nil
}

// displayPath shows paths inside root relative to it.
func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
