package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// variantsCmd represents the variants command
var variantsCmd = &cobra.Command{
	Use:   "variants FILE LINE",
	Short: "List the lambda breakpoint variants of a line",
	Long: `Variants lists where a breakpoint on LINE (1-based) may stop when the line
contains lambdas: ordinal -1 is the line itself, ordinals 0..n-1 are the
lambdas in source order and the last "all" variant stops everywhere.

Example:
  breakscan variants src/Main.java 12`,
	Args: cobra.ExactArgs(2),
	RunE: runVariants,
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}

func runVariants(cmd *cobra.Command, args []string) error {
	line, err := parseLine(args[1])
	if err != nil {
		return err
	}

	p, err := openProject(false)
	if err != nil {
		return err
	}
	defer p.Close()

	return listVariants(cmd.Context(), cmd.OutOrStdout(), p, args[0], line)
}

func listVariants(ctx context.Context, w io.Writer, p *project, file string, line int) error {
	variants, err := p.service.Variants(ctx, file, line)
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		fmt.Fprintf(w, "%s:%d: no lambda variants\n", file, line+1)
		return nil
	}

	table := newTable(w, "Ordinal", "Kind", "Lines", "Text")
	for _, v := range variants {
		span := fmt.Sprintf("%d", v.StartLine+1)
		if v.EndLine != v.StartLine {
			span = fmt.Sprintf("%d-%d", v.StartLine+1, v.EndLine+1)
		}
		table.Append([]string{strconv.Itoa(v.Ordinal), string(v.Kind), span, v.Text})
	}
	table.Render()
	return nil
}
