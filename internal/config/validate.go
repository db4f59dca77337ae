package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrEmptyInclude indicates no include patterns were configured
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrEmptyDBPath indicates a missing breakpoint database path
	ErrEmptyDBPath = errors.New("empty database path")

	// ErrInvalidWatchSettings indicates invalid watcher configuration
	ErrInvalidWatchSettings = errors.New("invalid watch settings")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_files must be positive, got %d", ErrInvalidCacheSettings, cfg.Cache.MaxFiles))
	}
	if cfg.Cache.TTLMinutes < 0 {
		errs = append(errs, fmt.Errorf("%w: ttl_minutes cannot be negative, got %d", ErrInvalidCacheSettings, cfg.Cache.TTLMinutes))
	}

	if strings.TrimSpace(cfg.Storage.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%w: db_path is required", ErrEmptyDBPath))
	}

	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidWatchSettings, cfg.Watch.DebounceMS))
	}

	if cfg.Scan.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Scan.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	if len(cfg.Include) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one include pattern required", ErrEmptyInclude))
	}

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// errors.Is still matches each of the joined errors.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
