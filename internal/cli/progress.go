package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mvp-joe/breakscan/internal/analysis"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows scan progress with a progress bar on stderr.
type CLIProgressReporter struct {
	quiet bool
	out   io.Writer
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Scanning %s source files\n", formatNumber(files))

	c.bar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFileScanned is safe to call concurrently; the bar serializes updates.
func (c *CLIProgressReporter) OnFileScanned(path string) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *analysis.ScanStats) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	fmt.Fprintf(c.out, "✓ Scan complete: %s files, %s applicable lines in %.1fs\n",
		formatNumber(stats.Files), formatNumber(stats.ApplicableLines), stats.Duration.Seconds())
	if stats.FailedFiles > 0 {
		fmt.Fprintf(c.out, "  Failed files: %s\n", formatNumber(stats.FailedFiles))
	}
}
