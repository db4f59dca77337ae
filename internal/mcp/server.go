package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/mvp-joe/breakscan/internal/config"
	"github.com/mvp-joe/breakscan/internal/storage"
	"github.com/mvp-joe/breakscan/internal/watcher"
)

// MCPServerConfig configures an MCPServer.
type MCPServerConfig struct {
	RootDir string         // Project root; relative request paths resolve against it
	Config  *config.Config // Loaded project configuration
	Version string
	Watch   bool // Revalidate breakpoints as files change
}

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config  *MCPServerConfig
	service *analysis.Service
	store   *storage.Store
	manager *analysis.Manager
	mcp     *server.MCPServer
}

// NewMCPServer opens the breakpoint store and registers the breakpoint tools.
func NewMCPServer(cfg *MCPServerConfig) (*MCPServer, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	service, err := analysis.NewService(cfg.Config)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Config.ResolveDBPath(cfg.RootDir))
	if err != nil {
		service.Close()
		return nil, fmt.Errorf("failed to open breakpoint store: %w", err)
	}

	manager := analysis.NewManager(service, store)

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	mcpServer := server.NewMCPServer(
		"breakscan-mcp",
		version,
		server.WithToolCapabilities(true),
	)
	AddBreakpointTools(mcpServer, service, manager, cfg.RootDir)

	return &MCPServer{
		config:  cfg,
		service: service,
		store:   store,
		manager: manager,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if changed, err := s.manager.Revalidate(ctx, nil); err != nil {
		log.Printf("Warning: initial revalidation failed: %v", err)
	} else if len(changed) > 0 {
		log.Printf("Revalidated stored breakpoints: %d changed", len(changed))
	}

	if s.config.Watch {
		files, err := watcher.NewProjectWatcher(s.config.RootDir, s.config.Config)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		coordinator := watcher.NewWatchCoordinator(files, s.service, s.manager)
		go coordinator.Start(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *MCPServer) Close() error {
	s.service.Close()
	return s.store.Close()
}
