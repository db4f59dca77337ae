package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check FILE LINE",
	Short: "Report whether a line can hold a breakpoint",
	Long: `Check reports whether a debugger line breakpoint can be placed on LINE
(1-based) of FILE.

Examples:
  breakscan check src/Main.java 12
  breakscan check app/models.py 40`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	line, err := parseLine(args[1])
	if err != nil {
		return err
	}

	p, err := openProject(false)
	if err != nil {
		return err
	}
	defer p.Close()

	return checkLine(cmd.Context(), cmd.OutOrStdout(), p, args[0], line)
}

func checkLine(ctx context.Context, w io.Writer, p *project, file string, line int) error {
	ok, err := p.service.Check(ctx, file, line)
	if err != nil {
		return err
	}

	verdict := "no breakpoint allowed"
	if ok {
		verdict = "breakpoint allowed"
	}
	fmt.Fprintf(w, "%s:%d: %s\n", file, line+1, verdict)
	return nil
}
