package mcp

import (
	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/mvp-joe/breakscan/internal/storage"
)

// Lines in requests and responses are 1-based, as editors show them.

// CheckRequest asks whether a line accepts breakpoints.
type CheckRequest struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// CheckResponse answers a CheckRequest.
type CheckResponse struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Applicable bool   `json:"applicable"`
}

// LinesRequest asks for every applicable line of a file.
type LinesRequest struct {
	File string `json:"file"`
}

// LinesResponse answers a LinesRequest.
type LinesResponse struct {
	File  string `json:"file"`
	Lines []int  `json:"lines"`
	Total int    `json:"total"`
}

// VariantsRequest asks for the breakpoint variants of a line.
type VariantsRequest struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Variant is one breakpoint variant of a line.
type Variant struct {
	Kind      string `json:"kind"`
	Ordinal   int    `json:"ordinal"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
}

// VariantsResponse answers a VariantsRequest.
type VariantsResponse struct {
	File     string    `json:"file"`
	Line     int       `json:"line"`
	Variants []Variant `json:"variants"`
}

// AddRequest places a breakpoint. A missing ordinal means the line itself.
type AddRequest struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Ordinal *int   `json:"ordinal,omitempty"`
}

// ListRequest filters stored breakpoints.
type ListRequest struct {
	File      string `json:"file,omitempty"`
	OnlyValid bool   `json:"only_valid,omitempty"`
}

// RemoveRequest deletes a breakpoint by ID.
type RemoveRequest struct {
	ID string `json:"id"`
}

// Breakpoint is a stored breakpoint as reported to clients.
type Breakpoint struct {
	ID      string `json:"id"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Ordinal int    `json:"ordinal"`
	Enabled bool   `json:"enabled"`
	Valid   bool   `json:"valid"`
}

// ListResponse answers a ListRequest.
type ListResponse struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
	Total       int          `json:"total"`
}

// RemoveResponse answers a RemoveRequest.
type RemoveResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func toBreakpoint(bp *storage.Breakpoint, root string) Breakpoint {
	return Breakpoint{
		ID:      bp.ID,
		File:    displayPath(root, bp.FilePath),
		Line:    bp.Line + 1,
		Ordinal: bp.Ordinal,
		Enabled: bp.Enabled,
		Valid:   bp.Valid,
	}
}

func toVariant(v analysis.VariantInfo) Variant {
	return Variant{
		Kind:      string(v.Kind),
		Ordinal:   v.Ordinal,
		StartLine: v.StartLine + 1,
		EndLine:   v.EndLine + 1,
		Text:      v.Text,
	}
}
