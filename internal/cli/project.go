package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/mvp-joe/breakscan/internal/config"
	"github.com/mvp-joe/breakscan/internal/storage"
)

// project bundles what a command needs to work on one project.
type project struct {
	root    string
	cfg     *config.Config
	service *analysis.Service
	store   *storage.Store
	manager *analysis.Manager
}

// loadProjectConfig resolves the project root and loads its configuration.
func loadProjectConfig() (string, *config.Config, error) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	loader := config.NewLoader(root)
	if cfgFile != "" {
		loader = config.NewFileLoader(root, cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Project root: %s\n", root)
	}
	return root, cfg, nil
}

// openProject loads configuration and creates the analysis service. The
// breakpoint store is only opened when withStore is set.
func openProject(withStore bool) (*project, error) {
	root, cfg, err := loadProjectConfig()
	if err != nil {
		return nil, err
	}

	p := &project{root: root, cfg: cfg}
	if p.service, err = analysis.NewService(cfg); err != nil {
		return nil, err
	}

	if withStore {
		dbPath := cfg.ResolveDBPath(root)
		if verbose {
			fmt.Fprintf(os.Stderr, "Breakpoint database: %s\n", dbPath)
		}
		if p.store, err = storage.Open(dbPath); err != nil {
			p.service.Close()
			return nil, fmt.Errorf("failed to open breakpoint store: %w", err)
		}
		p.manager = analysis.NewManager(p.service, p.store)
	}
	return p, nil
}

func (p *project) Close() {
	p.service.Close()
	if p.store != nil {
		p.store.Close()
	}
}

// parseLine converts a 1-based line argument to a 0-based line.
func parseLine(arg string) (int, error) {
	line, err := strconv.Atoi(arg)
	if err != nil || line < 1 {
		return 0, fmt.Errorf("invalid line %q: expected a number >= 1", arg)
	}
	return line - 1, nil
}

// displayPath shows paths inside root relative to it.
func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(rel)
	}
	return path
}

func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if n < 1000 {
		return str
	}

	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
