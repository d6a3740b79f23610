package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yleoer/cdtoc/pkg/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and report every new or changed rip",
	Long: `Scan the cue sheets and FLAC files already in the directory, then
keep watching it. Changes are debounced by SCAN_DELAY before the file is
decoded and reported. New top-level subdirectories are watched too.

The directory defaults to WATCH_DIR.

Example:
  cdtoc watch -v ./rips`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cmd)
		if err != nil {
			return err
		}
		root := svc.cfg.WatchDir
		if len(args) == 1 {
			root = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ts := scheduler.NewTaskScheduler(svc.cfg.ScanDelay, svc.scanner, svc.links, cmd.OutOrStdout(), svc.logger)
		if err := ts.Watch(ctx, root); err != nil {
			return err
		}
		svc.logger.Println("Shutting down watcher.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
