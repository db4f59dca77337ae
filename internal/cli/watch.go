package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/breakscan/internal/watcher"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recheck stored breakpoints as files change",
	Long: `Watch monitors the project's source files and rechecks the stored
breakpoints of every file that changes, marking breakpoints invalid when
their line stops accepting one and valid again when it does.

Runs until interrupted (Ctrl+C).`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := openProject(true)
	if err != nil {
		return err
	}
	defer p.Close()

	if changed, err := p.manager.Revalidate(ctx, nil); err != nil {
		return fmt.Errorf("initial revalidation failed: %w", err)
	} else if len(changed) > 0 {
		log.Printf("Revalidated stored breakpoints: %d changed", len(changed))
	}

	files, err := watcher.NewProjectWatcher(p.root, p.cfg)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	log.Printf("Watching %s for changes (Ctrl+C to stop)...", p.root)
	err = watcher.NewWatchCoordinator(files, p.service, p.manager).Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
