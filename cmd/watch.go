package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/config"
	"github.com/Tiliavir/babytime/internal/storage"
	"github.com/Tiliavir/babytime/internal/watch"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the status on screen, refreshing as time passes and data changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default from config, 1m)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := cfg.Watch.Interval
	if watchInterval > 0 {
		interval = watchInterval
	}

	err := watch.Run(ctx, watch.Options{
		Interval: interval,
		Paths:    watchPaths(cfg, store),
		Render: func(ctx context.Context) error {
			var buf bytes.Buffer
			if err := renderStatus(ctx, &buf); err != nil {
				fmt.Fprintf(&buf, "%v\n", err)
			}
			fmt.Fprintf(&buf, "\n(refreshing every %s, Ctrl-C to quit)\n", interval)
			// Clear the screen and draw in one write to avoid flicker.
			_, err := os.Stdout.Write(append([]byte("\033[H\033[2J"), buf.Bytes()...))
			return err
		},
	})
	if err != nil {
		fail(err)
	}
	return nil
}

// watchPaths lists the directory trees whose changes should trigger a
// refresh: the data directory for day files, the database's directory for
// SQLite.
func watchPaths(c config.Config, s storage.Store) []string {
	if fs, ok := s.(*storage.FileStore); ok {
		return []string{fs.Base()}
	}
	return []string{filepath.Dir(c.StoragePath())}
}
