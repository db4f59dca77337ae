package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/mvp-joe/breakscan/internal/breakpoint"
	mcputils "github.com/mvp-joe/breakscan/internal/mcp-utils"
	"github.com/mvp-joe/breakscan/internal/storage"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Analyzer answers applicability questions about files.
type Analyzer interface {
	Check(ctx context.Context, path string, line int) (bool, error)
	Lines(ctx context.Context, path string) ([]int, error)
	Variants(ctx context.Context, path string, line int) ([]analysis.VariantInfo, error)
}

// BreakpointManager stores breakpoints.
type BreakpointManager interface {
	Add(ctx context.Context, path string, line, ordinal int) (*storage.Breakpoint, error)
	List(ctx context.Context, filter storage.ListFilter) ([]*storage.Breakpoint, error)
	Remove(ctx context.Context, id string) error
}

// AddBreakpointTools registers every breakpoint tool with s. Relative
// paths in requests resolve against root.
func AddBreakpointTools(s *server.MCPServer, analyzer Analyzer, manager BreakpointManager, root string) {
	AddBreakpointCheckTool(s, analyzer, root)
	AddBreakpointLinesTool(s, analyzer, root)
	AddBreakpointVariantsTool(s, analyzer, root)
	AddBreakpointAddTool(s, manager, root)
	AddBreakpointListTool(s, manager, root)
	AddBreakpointRemoveTool(s, manager)
}

// AddBreakpointCheckTool registers the breakpoint_check tool.
func AddBreakpointCheckTool(s *server.MCPServer, analyzer Analyzer, root string) {
	tool := mcp.NewTool(
		"breakpoint_check",
		mcp.WithDescription("Check whether a line breakpoint can be placed on a source line. Lines holding only declarations without initializers, signatures, imports, braces or comments cannot take a breakpoint."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file path, relative to the project root or absolute")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based line number")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createCheckHandler(analyzer, root))
}

func createCheckHandler(analyzer Analyzer, root string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req CheckRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		path, err := resolvePath(root, req.File)
		if err != nil {
			return toolError(err)
		}
		line, err := toLine(req.Line)
		if err != nil {
			return toolError(err)
		}

		ok, err := analyzer.Check(ctx, path, line)
		if err != nil {
			return toolError(err)
		}
		return marshalToolResponse(CheckResponse{File: displayPath(root, path), Line: req.Line, Applicable: ok})
	}
}

// AddBreakpointLinesTool registers the breakpoint_lines tool.
func AddBreakpointLinesTool(s *server.MCPServer, analyzer Analyzer, root string) {
	tool := mcp.NewTool(
		"breakpoint_lines",
		mcp.WithDescription("List every 1-based line of a source file on which a line breakpoint can be placed."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file path, relative to the project root or absolute")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createLinesHandler(analyzer, root))
}

func createLinesHandler(analyzer Analyzer, root string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req LinesRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		path, err := resolvePath(root, req.File)
		if err != nil {
			return toolError(err)
		}

		lines, err := analyzer.Lines(ctx, path)
		if err != nil {
			return toolError(err)
		}

		oneBased := make([]int, len(lines))
		for i, l := range lines {
			oneBased[i] = l + 1
		}
		return marshalToolResponse(LinesResponse{File: displayPath(root, path), Lines: oneBased, Total: len(oneBased)})
	}
}

// AddBreakpointVariantsTool registers the breakpoint_variants tool.
func AddBreakpointVariantsTool(s *server.MCPServer, analyzer Analyzer, root string) {
	tool := mcp.NewTool(
		"breakpoint_variants",
		mcp.WithDescription(`List the places a breakpoint on a line may stop when the line contains lambdas.

Ordinal -1 stops on the line itself, ordinals 0..n-1 stop inside each lambda in source order, and kind "all" stops everywhere. Lines without lambdas have no variants.`),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file path, relative to the project root or absolute")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based line number")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createVariantsHandler(analyzer, root))
}

func createVariantsHandler(analyzer Analyzer, root string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req VariantsRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		path, err := resolvePath(root, req.File)
		if err != nil {
			return toolError(err)
		}
		line, err := toLine(req.Line)
		if err != nil {
			return toolError(err)
		}

		infos, err := analyzer.Variants(ctx, path, line)
		if err != nil {
			return toolError(err)
		}

		variants := make([]Variant, 0, len(infos))
		for _, info := range infos {
			variants = append(variants, toVariant(info))
		}
		return marshalToolResponse(VariantsResponse{File: displayPath(root, path), Line: req.Line, Variants: variants})
	}
}

// AddBreakpointAddTool registers the breakpoint_add tool.
func AddBreakpointAddTool(s *server.MCPServer, manager BreakpointManager, root string) {
	tool := mcp.NewTool(
		"breakpoint_add",
		mcp.WithDescription("Store a line breakpoint. Fails when the line cannot take a breakpoint or the ordinal is not one of the line's variants."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Source file path, relative to the project root or absolute")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based line number")),
		mcp.WithNumber("ordinal",
			mcp.Description("Variant ordinal from breakpoint_variants (default: -1, the line itself)")),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createAddHandler(manager, root))
}

func createAddHandler(manager BreakpointManager, root string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req AddRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		path, err := resolvePath(root, req.File)
		if err != nil {
			return toolError(err)
		}
		line, err := toLine(req.Line)
		if err != nil {
			return toolError(err)
		}

		ordinal := breakpoint.LineOrdinal
		if req.Ordinal != nil {
			ordinal = *req.Ordinal
		}

		bp, err := manager.Add(ctx, path, line, ordinal)
		if err != nil {
			return toolError(err)
		}
		return marshalToolResponse(toBreakpoint(bp, root))
	}
}

// AddBreakpointListTool registers the breakpoint_list tool.
func AddBreakpointListTool(s *server.MCPServer, manager BreakpointManager, root string) {
	tool := mcp.NewTool(
		"breakpoint_list",
		mcp.WithDescription("List stored breakpoints. Breakpoints whose line no longer accepts a breakpoint are reported with valid=false."),
		mcp.WithString("file",
			mcp.Description("Only list breakpoints in this file")),
		mcp.WithBoolean("only_valid",
			mcp.Description("Only list breakpoints that are still valid")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createListHandler(manager, root))
}

func createListHandler(manager BreakpointManager, root string) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req ListRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		filter := storage.ListFilter{OnlyValid: req.OnlyValid}
		if req.File != "" {
			path, err := resolvePath(root, req.File)
			if err != nil {
				return toolError(err)
			}
			filter.FilePath = path
		}

		bps, err := manager.List(ctx, filter)
		if err != nil {
			return toolError(err)
		}

		response := ListResponse{Breakpoints: make([]Breakpoint, 0, len(bps)), Total: len(bps)}
		for _, bp := range bps {
			response.Breakpoints = append(response.Breakpoints, toBreakpoint(bp, root))
		}
		return marshalToolResponse(response)
	}
}

// AddBreakpointRemoveTool registers the breakpoint_remove tool.
func AddBreakpointRemoveTool(s *server.MCPServer, manager BreakpointManager) {
	tool := mcp.NewTool(
		"breakpoint_remove",
		mcp.WithDescription("Delete a stored breakpoint by ID."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Breakpoint ID from breakpoint_add or breakpoint_list")),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(tool, createRemoveHandler(manager))
}

func createRemoveHandler(manager BreakpointManager) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req RemoveRequest
		if err := mcputils.BindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.ID == "" {
			return mcp.NewToolResultError("id parameter is required"), nil
		}

		if err := manager.Remove(ctx, req.ID); err != nil {
			return toolError(err)
		}
		return marshalToolResponse(RemoveResponse{ID: req.ID, Removed: true})
	}
}
