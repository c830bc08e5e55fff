// Package watch re-renders a view periodically and whenever the data
// directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/Tiliavir/babytime/internal/logfields"
)

// DefaultDebounce collapses the burst of events an atomic save produces.
const DefaultDebounce = 500 * time.Millisecond

// Options configures Run.
type Options struct {
	// Interval is the periodic refresh; minutes tick over even when no data
	// changes.
	Interval time.Duration
	// Paths are directory trees to watch for changes. Subdirectories,
	// including ones created later, are watched too. Missing paths are
	// skipped.
	Paths    []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Render draws the view. Errors are logged and the loop continues.
	Render   func(ctx context.Context) error
}

// Run calls Render once, then again on every Interval tick and after every
// debounced change under Paths, until ctx is cancelled. Renders never overlap.
func Run(ctx context.Context, opts Options) error {
	if opts.Render == nil {
		return errors.New("watch: Render is required")
	}
	if opts.Interval <= 0 {
		return fmt.Errorf("watch: interval must be positive, got %s", opts.Interval)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
			// Render already pending
		}
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(opts.Interval),
		gocron.NewTask(kick),
		gocron.WithName("refresh"),
	); err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	for _, p := range opts.Paths {
		if _, err := os.Stat(p); err != nil {
			slog.Debug("Skipping missing watch path", logfields.Path(p))
			continue
		}
		if err := addTree(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	go watchLoop(ctx, watcher, opts.Debounce, kick)

	render(ctx, opts.Render)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			render(ctx, opts.Render)
		}
	}
}

func render(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		slog.Error("Render failed", logfields.Error(err))
	}
}

// addTree watches root and every directory below it. fsnotify does not
// recurse on its own.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Removed between listing and visiting.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}

// watchLoop turns file system events into debounced kicks. New directories
// are added to the watch as they appear.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, kick func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			slog.Debug("Data change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						slog.Warn("Could not watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, kick)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}
