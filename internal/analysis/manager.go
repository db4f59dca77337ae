package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/mvp-joe/breakscan/internal/breakpoint"
	"github.com/mvp-joe/breakscan/internal/storage"
)

var (
	// ErrNotApplicable is returned when a breakpoint cannot be placed on a line.
	ErrNotApplicable = errors.New("line does not accept breakpoints")

	// ErrNoSuchVariant is returned when the requested ordinal is not one of the line's variants.
	ErrNoSuchVariant = errors.New("no such breakpoint variant")
)

// Manager keeps the stored breakpoints consistent with the source they point at.
type Manager struct {
	service *Service
	store   *storage.Store
}

// NewManager creates a Manager.
func NewManager(service *Service, store *storage.Store) *Manager {
	return &Manager{service: service, store: store}
}

// Add stores a breakpoint on the 0-based line of path. ordinal is
// breakpoint.LineOrdinal for the line itself or one of its variant ordinals.
func (m *Manager) Add(ctx context.Context, path string, line, ordinal int) (*storage.Breakpoint, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	valid, err := m.validate(ctx, abs, line, ordinal)
	if err != nil {
		return nil, err
	}
	if !valid {
		if ok, _ := m.service.Check(ctx, abs, line); !ok {
			return nil, fmt.Errorf("%w: %s:%d", ErrNotApplicable, abs, line+1)
		}
		return nil, fmt.Errorf("%w: ordinal %d at %s:%d", ErrNoSuchVariant, ordinal, abs, line+1)
	}

	return m.store.Add(ctx, storage.Breakpoint{
		FilePath: abs,
		Line:     line,
		Ordinal:  ordinal,
		Enabled:  true,
		Valid:    true,
	})
}

// List returns stored breakpoints.
func (m *Manager) List(ctx context.Context, filter storage.ListFilter) ([]*storage.Breakpoint, error) {
	if filter.FilePath != "" {
		abs, err := filepath.Abs(filter.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", filter.FilePath, err)
		}
		filter.FilePath = abs
	}
	return m.store.List(ctx, filter)
}

// Remove deletes a stored breakpoint.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.store.Remove(ctx, id)
}

// SetEnabled enables or disables a stored breakpoint without touching its validity.
func (m *Manager) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return m.store.SetEnabled(ctx, id, enabled)
}

// Revalidate rechecks the breakpoints stored for files, or for every file
// with breakpoints when files is empty, and returns those whose validity
// changed. Breakpoints in deleted files become invalid.
func (m *Manager) Revalidate(ctx context.Context, files []string) ([]*storage.Breakpoint, error) {
	if len(files) == 0 {
		var err error
		if files, err = m.store.Files(ctx); err != nil {
			return nil, err
		}
	}

	var changed []*storage.Breakpoint
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return changed, fmt.Errorf("failed to resolve %s: %w", path, err)
		}

		bps, err := m.store.List(ctx, storage.ListFilter{FilePath: abs})
		if err != nil {
			return changed, err
		}

		for _, bp := range bps {
			valid, err := m.validate(ctx, abs, bp.Line, bp.Ordinal)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					log.Printf("Warning: failed to revalidate %s:%d: %v", abs, bp.Line+1, err)
				}
				valid = false
			}
			if valid == bp.Valid {
				continue
			}

			if err := m.store.SetValid(ctx, bp.ID, valid); err != nil {
				return changed, err
			}
			bp.Valid = valid
			changed = append(changed, bp)
		}
	}
	return changed, nil
}

// validate reports whether (line, ordinal) is still a breakpoint target.
func (m *Manager) validate(ctx context.Context, abs string, line, ordinal int) (bool, error) {
	ok, err := m.service.Check(ctx, abs, line)
	if err != nil || !ok {
		return false, err
	}
	if ordinal == breakpoint.LineOrdinal {
		return true, nil
	}

	variants, err := m.service.Variants(ctx, abs, line)
	if err != nil {
		return false, err
	}
	for _, v := range variants {
		if v.Ordinal == ordinal {
			return true, nil
		}
	}
	return false, nil
}
