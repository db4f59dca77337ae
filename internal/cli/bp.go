package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/mvp-joe/breakscan/internal/breakpoint"
	"github.com/mvp-joe/breakscan/internal/storage"
	"github.com/spf13/cobra"
)

var (
	bpOrdinal   int
	bpFile      string
	bpOnlyValid bool
)

// bpCmd groups the stored breakpoint commands
var bpCmd = &cobra.Command{
	Use:   "bp",
	Short: "Manage stored breakpoints",
	Long: `Manage the breakpoints stored in the project's breakpoint database.

Breakpoints are only stored on lines that can hold one. When a file
changes, "breakscan bp revalidate" or a running "breakscan watch" marks
breakpoints whose line no longer qualifies as invalid.`,
}

var bpAddCmd = &cobra.Command{
	Use:   "add FILE LINE",
	Short: "Store a breakpoint on a line",
	Long: `Store a breakpoint on LINE (1-based) of FILE.

Examples:
  # Stop on the line itself
  breakscan bp add src/Main.java 12

  # Stop inside the second lambda on the line
  breakscan bp add src/Main.java 12 --ordinal 1`,
	Args: cobra.ExactArgs(2),
	RunE: runBPAdd,
}

var bpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored breakpoints",
	Args:  cobra.NoArgs,
	RunE:  runBPList,
}

var bpRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Delete a stored breakpoint",
	Args:    cobra.ExactArgs(1),
	RunE:    runBPRemove,
}

var bpEnableCmd = &cobra.Command{
	Use:   "enable ID",
	Short: "Enable a stored breakpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBPSetEnabled(cmd, args[0], true)
	},
}

var bpDisableCmd = &cobra.Command{
	Use:   "disable ID",
	Short: "Disable a stored breakpoint without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBPSetEnabled(cmd, args[0], false)
	},
}

var bpRevalidateCmd = &cobra.Command{
	Use:   "revalidate [FILE...]",
	Short: "Recheck stored breakpoints against the files on disk",
	RunE:  runBPRevalidate,
}

func init() {
	rootCmd.AddCommand(bpCmd)
	bpCmd.AddCommand(bpAddCmd, bpListCmd, bpRemoveCmd, bpEnableCmd, bpDisableCmd, bpRevalidateCmd)

	bpAddCmd.Flags().IntVar(&bpOrdinal, "ordinal", breakpoint.LineOrdinal, "Variant ordinal from 'breakscan variants' (-1 is the line itself)")
	bpListCmd.Flags().StringVar(&bpFile, "file", "", "Only list breakpoints in this file")
	bpListCmd.Flags().BoolVar(&bpOnlyValid, "valid", false, "Only list breakpoints that are still valid")
}

func runBPAdd(cmd *cobra.Command, args []string) error {
	line, err := parseLine(args[1])
	if err != nil {
		return err
	}

	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	return addBreakpoint(cmd.Context(), cmd.OutOrStdout(), p, args[0], line, bpOrdinal)
}

func runBPList(cmd *cobra.Command, args []string) error {
	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	return listBreakpoints(cmd.Context(), cmd.OutOrStdout(), p, storage.ListFilter{FilePath: bpFile, OnlyValid: bpOnlyValid})
}

func runBPRemove(cmd *cobra.Command, args []string) error {
	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.manager.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed breakpoint %s\n", args[0])
	return nil
}

func runBPSetEnabled(cmd *cobra.Command, id string, enabled bool) error {
	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	return setEnabled(cmd.Context(), cmd.OutOrStdout(), p, id, enabled)
}

func runBPRevalidate(cmd *cobra.Command, args []string) error {
	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	return revalidate(cmd.Context(), cmd.OutOrStdout(), p, args)
}

func addBreakpoint(ctx context.Context, w io.Writer, p *project, file string, line, ordinal int) error {
	bp, err := p.manager.Add(ctx, file, line, ordinal)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Added breakpoint %s at %s:%d%s\n", bp.ID, displayPath(p.root, bp.FilePath), bp.Line+1, ordinalSuffix(bp.Ordinal))
	return nil
}

func listBreakpoints(ctx context.Context, w io.Writer, p *project, filter storage.ListFilter) error {
	bps, err := p.manager.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(bps) == 0 {
		fmt.Fprintln(w, "No breakpoints")
		return nil
	}

	table := newTable(w, "ID", "Location", "Ordinal", "State")
	for _, bp := range bps {
		location := fmt.Sprintf("%s:%d", displayPath(p.root, bp.FilePath), bp.Line+1)
		table.Append([]string{bp.ID, location, strconv.Itoa(bp.Ordinal), state(bp)})
	}
	table.Render()
	return nil
}

func setEnabled(ctx context.Context, w io.Writer, p *project, id string, enabled bool) error {
	if err := p.manager.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}
	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	fmt.Fprintf(w, "%s breakpoint %s\n", verb, id)
	return nil
}

func revalidate(ctx context.Context, w io.Writer, p *project, files []string) error {
	changed, err := p.manager.Revalidate(ctx, files)
	if err != nil {
		return err
	}
	for _, bp := range changed {
		fmt.Fprintf(w, "%s %s:%d is now %s\n", bp.ID, displayPath(p.root, bp.FilePath), bp.Line+1, state(bp))
	}
	fmt.Fprintf(w, "✓ %d breakpoint(s) changed\n", len(changed))
	return nil
}

func state(bp *storage.Breakpoint) string {
	switch {
	case !bp.Valid:
		return "invalid"
	case !bp.Enabled:
		return "disabled"
	default:
		return "valid"
	}
}

func ordinalSuffix(ordinal int) string {
	if ordinal == breakpoint.LineOrdinal {
		return ""
	}
	return fmt.Sprintf(" (lambda %d)", ordinal)
}
