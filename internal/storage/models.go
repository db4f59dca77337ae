package storage

import "time"

// Breakpoint is a persisted line breakpoint.
type Breakpoint struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"file_path"`
	Line      int       `json:"line"`    // 0-based
	Ordinal   int       `json:"ordinal"` // -1 for the line itself, otherwise a lambda ordinal
	Enabled   bool      `json:"enabled"`
	Valid     bool      `json:"valid"` // false once the line stops accepting breakpoints
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter narrows Store.List. Zero values match everything.
type ListFilter struct {
	FilePath  string
	OnlyValid bool
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
