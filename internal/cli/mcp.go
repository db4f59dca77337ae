package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/breakscan/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpWatch bool

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for breakpoint placement",
	Long: `Start the Model Context Protocol (MCP) server that lets coding assistants
check breakpoint placement and manage stored breakpoints.

The MCP server:
- Exposes breakpoint_check, breakpoint_lines, breakpoint_variants,
  breakpoint_add, breakpoint_list and breakpoint_remove
- Rechecks stored breakpoints as files change (disable with --watch=false)
- Communicates via stdio (standard MCP transport)

Example:
  breakscan mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", true, "Recheck stored breakpoints as files change")
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "breakscan MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n", root)
	fmt.Fprintf(os.Stderr, "Breakpoint Database: %s\n\n", cfg.ResolveDBPath(root))

	server, err := mcp.NewMCPServer(&mcp.MCPServerConfig{
		RootDir: root,
		Config:  cfg,
		Version: Version,
		Watch:   mcpWatch,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
