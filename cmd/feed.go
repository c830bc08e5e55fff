package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/model"
)

var (
	feedSource string
	feedSide   string
	feedAt     string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Log bottles and time nursing sessions",
}

var feedBottleCmd = &cobra.Command{
	Use:   "bottle <oz>",
	Short: "Log a bottle feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedBottle,
}

var feedStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a nursing session",
	Args:  cobra.NoArgs,
	RunE:  runFeedStart,
}

var feedStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running nursing session",
	Args:  cobra.NoArgs,
	RunE:  runFeedStop,
}

var feedResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the running nursing session",
	Args:  cobra.NoArgs,
	RunE:  runFeedReset,
}

func init() {
	feedBottleCmd.Flags().StringVar(&feedSource, "source", string(model.SourceBreastMilk), "breast_milk or formula")
	feedBottleCmd.Flags().StringVar(&feedAt, "at", "", "When the bottle was given (HH:MM or e.g. 20m ago)")
	feedStartCmd.Flags().StringVar(&feedSide, "side", string(model.SideBoth), "left, right or both")

	feedCmd.AddCommand(feedBottleCmd)
	feedCmd.AddCommand(feedStartCmd)
	feedCmd.AddCommand(feedStopCmd)
	feedCmd.AddCommand(feedResetCmd)
}

func runFeedBottle(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	source, err := model.ParseBottleSource(feedSource)
	if err != nil {
		return err
	}
	at, err := parseWhen(app.Now(), feedAt)
	if err != nil {
		return err
	}

	f, err := app.LogBottle(cmd.Context(), amount, source, at)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Logged %s at %s\n", f.Description(), f.Start.Format("15:04"))
	return nil
}

func runFeedStart(cmd *cobra.Command, args []string) error {
	side, err := model.ParseNursingSide(feedSide)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Only one session can run; StartNursing stops a forgotten one.
	if active, err := app.ActiveNursing(ctx); err != nil {
		fail(err)
	} else if active != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: auto-stopping nursing session started at %s\n", active.Start.Format("15:04"))
	}

	f, err := app.StartNursing(ctx, side)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Started nursing (%s) at %s\n", f.Side, f.Start.Format("15:04:05"))
	return nil
}

func runFeedStop(cmd *cobra.Command, args []string) error {
	f, err := app.StopNursing(cmd.Context())
	if err != nil {
		fail(err)
	}
	elapsed := int64(f.End.Sub(f.Start).Seconds())
	fmt.Printf("Stopped nursing (%s). Elapsed: %s\n", f.Side, formatElapsed(elapsed))
	return nil
}

func runFeedReset(cmd *cobra.Command, args []string) error {
	if err := app.ResetNursing(cmd.Context()); err != nil {
		fail(err)
	}
	fmt.Println("Discarded the running nursing session.")
	return nil
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
