package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	linesQuiet bool
	linesJSON  bool
)

// linesCmd represents the lines command
var linesCmd = &cobra.Command{
	Use:   "lines PATH",
	Short: "List the lines that can hold a breakpoint",
	Long: `Lines prints every 1-based line of a file that can hold a debugger line
breakpoint. Given a directory it scans every source file matched by the
configured include patterns, in parallel, with a progress bar.

Examples:
  # One file
  breakscan lines src/Main.java

  # Whole project as JSON, no progress bar
  breakscan lines . --json --quiet`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.Flags().BoolVarP(&linesQuiet, "quiet", "q", false, "Disable progress bars and non-error output")
	linesCmd.Flags().BoolVar(&linesJSON, "json", false, "Print results as JSON")
}

func runLines(cmd *cobra.Command, args []string) error {
	p, err := openProject(false)
	if err != nil {
		return err
	}
	defer p.Close()

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}

	var results []analysis.FileResult
	if info.IsDir() {
		reporter := NewCLIProgressReporter(cmd.ErrOrStderr(), linesQuiet || linesJSON)
		results, err = p.service.ScanTree(cmd.Context(), args[0], reporter)
	} else {
		var lines []int
		lines, err = p.service.Lines(cmd.Context(), args[0])
		results = []analysis.FileResult{{Path: args[0], Lines: lines}}
	}
	if err != nil {
		return err
	}

	return printLines(cmd.OutOrStdout(), p.root, results, linesJSON)
}

// printLines writes results with 1-based lines, one file per line of output.
func printLines(w io.Writer, root string, results []analysis.FileResult, asJSON bool) error {
	for i := range results {
		abs, err := filepath.Abs(results[i].Path)
		if err == nil {
			results[i].Path = displayPath(root, abs)
		}
		for j := range results[i].Lines {
			results[i].Lines[j]++
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: error: %s\n", r.Path, r.Error)
			continue
		}
		nums := make([]string, len(r.Lines))
		for i, l := range r.Lines {
			nums[i] = strconv.Itoa(l)
		}
		fmt.Fprintf(w, "%s: %s\n", r.Path, strings.Join(nums, ","))
	}
	return nil
}
