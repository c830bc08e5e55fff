package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/config"
	"github.com/Tiliavir/babytime/internal/storage"
	"github.com/Tiliavir/babytime/internal/tracker"
)

var logLevel string

var (
	cfg   config.Config
	store storage.Store
	app   *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "babytime",
	Short: "BabyTime – what's next for your baby's day",
	Long: `babytime logs feeds, naps and wake times and tells you what comes next:
whether a nap is due, how long until the nap cutoff protects bedtime, and
when the next feed is ready. Data lives in ~/.babytime/.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(babyCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	store, err = storage.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	app = tracker.New(store, nil)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	return store.Close()
}

// fail reports err and exits: 1 for things the user can fix, 2 for storage
// and other unexpected errors.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	for _, userErr := range []error{
		tracker.ErrNoBaby,
		tracker.ErrUnknownBaby,
		tracker.ErrAmbiguousBaby,
		tracker.ErrNoActiveNursing,
		tracker.ErrNoActiveSleep,
		tracker.ErrNothingToResume,
		tracker.ErrInvalidRange,
		tracker.ErrInvalidAmount,
		tracker.ErrInvalidBabyField,
	} {
		if errors.Is(err, userErr) {
			return 1
		}
	}
	return 2
}
