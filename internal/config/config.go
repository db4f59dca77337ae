// Package config loads breakscan project configuration.
//
// Configuration lives in .breakscan/config.yml at the project root. Every key
// can be overridden with a BREAKSCAN_ environment variable, nested keys
// joined with underscores (BREAKSCAN_CACHE_MAX_FILES).
package config

import "path/filepath"

// Config represents the complete breakscan configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// CacheConfig bounds the parsed-file cache.
type CacheConfig struct {
	MaxFiles   int `yaml:"max_files" mapstructure:"max_files"`     // parsed trees kept in memory
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"` // 0 disables expiry
}

// StorageConfig locates the breakpoint database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"` // relative paths resolve against the project root
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// ScanConfig tunes directory scans.
type ScanConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.java",
				"**/*.c",
				"**/*.h",
				"**/*.php",
				"**/*.py",
				"**/*.rb",
				"**/*.rs",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
			},
		},
		Cache: CacheConfig{
			MaxFiles:   256,
			TTLMinutes: 30,
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(".breakscan", "breakpoints.db"),
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
		Scan: ScanConfig{
			Workers: 4,
		},
	}
}

// ResolveDBPath returns the database path, resolved against rootDir when relative.
func (c *Config) ResolveDBPath(rootDir string) string {
	if filepath.IsAbs(c.Storage.DBPath) {
		return c.Storage.DBPath
	}
	return filepath.Join(rootDir, c.Storage.DBPath)
}

// GetSourceExtensions extracts unique file extensions from the include patterns.
// Returns extensions with leading dot (e.g., []string{".java", ".py"}).
func (c *Config) GetSourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string
	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.java" -> ".java", "*.py" -> ".py", "src/main" -> ""
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
