package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRun(t *testing.T, opts Options) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(t.Context())
	ch := make(chan error, 1)
	go func() { ch <- Run(ctx, opts) }()
	return cancelFn, ch
}

func TestRunRendersOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	renders := make(chan struct{}, 10)

	cancel, done := startRun(t, Options{
		Interval: time.Hour,
		Paths:    []string{dir, filepath.Join(dir, "missing")},
		Debounce: 20 * time.Millisecond,
		Render: func(context.Context) error {
			renders <- struct{}{}
			return nil
		},
	})

	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("no initial render")
	}

	// Give the watcher goroutine a moment to start reading events.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "11.json"), []byte("{}"), 0o600))

	select {
	case <-renders:
	case <-time.After(3 * time.Second):
		t.Fatal("no render after file change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWatchesNewMonthDirectory(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "b1", "2026", "02"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(base, "b1", "2026", "02", "28.json"), []byte("{}"), 0o600))

	var n atomic.Int32
	cancel, done := startRun(t, Options{
		Interval: time.Hour,
		Paths:    []string{base},
		Debounce: 50 * time.Millisecond,
		Render: func(context.Context) error {
			n.Add(1)
			return nil
		},
	})
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// First write of March creates the month directory.
	month := filepath.Join(base, "b1", "2026", "03")
	require.NoError(t, os.MkdirAll(month, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(month, "01.json"), []byte("{}"), 0o600))
	require.Eventually(t, func() bool { return n.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	// Later writes land in the directory that is now watched.
	time.Sleep(200 * time.Millisecond)
	before := n.Load()
	require.NoError(t, os.WriteFile(filepath.Join(month, "01.json"), []byte(`{"feeds":[]}`), 0o600))
	assert.Eventually(t, func() bool { return n.Load() > before }, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRunRendersOnInterval(t *testing.T) {
	var n atomic.Int32
	cancel, done := startRun(t, Options{
		Interval: 50 * time.Millisecond,
		Render: func(context.Context) error {
			n.Add(1)
			return errors.New("render errors are not fatal")
		},
	})

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRunValidatesOptions(t *testing.T) {
	err := Run(t.Context(), Options{Interval: time.Minute})
	assert.Error(t, err)

	err = Run(t.Context(), Options{Render: func(context.Context) error { return nil }})
	assert.Error(t, err)
}
