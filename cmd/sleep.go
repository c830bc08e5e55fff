package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/timecalc"
)

var sleepAt string

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Time naps and night sleep",
}

var sleepStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Baby fell asleep",
	Args:  cobra.NoArgs,
	RunE:  runSleepStart,
}

var sleepStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Baby woke up",
	Args:  cobra.NoArgs,
	RunE:  runSleepStop,
}

var sleepResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Baby went back to sleep; continue the last nap",
	Args:  cobra.NoArgs,
	RunE:  runSleepResume,
}

var sleepResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the running sleep",
	Args:  cobra.NoArgs,
	RunE:  runSleepReset,
}

var sleepLogCmd = &cobra.Command{
	Use:   "log <start> <end>",
	Short: "Log a finished sleep (HH:MM HH:MM)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSleepLog,
}

func init() {
	sleepStartCmd.Flags().StringVar(&sleepAt, "at", "", "When the baby fell asleep (HH:MM or e.g. 10m ago)")

	sleepCmd.AddCommand(sleepStartCmd)
	sleepCmd.AddCommand(sleepStopCmd)
	sleepCmd.AddCommand(sleepResumeCmd)
	sleepCmd.AddCommand(sleepResetCmd)
	sleepCmd.AddCommand(sleepLogCmd)
}

func runSleepStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	at, err := parseWhen(app.Now(), sleepAt)
	if err != nil {
		return err
	}

	if active, err := app.ActiveSleep(ctx); err != nil {
		fail(err)
	} else if active != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: auto-stopping sleep started at %s\n", active.Start.Format("15:04"))
	}

	s, err := app.StartSleep(ctx, &at)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Sleep started at %s\n", s.Start.Format("15:04"))
	return nil
}

func runSleepStop(cmd *cobra.Command, args []string) error {
	s, err := app.StopSleep(cmd.Context())
	if err != nil {
		fail(err)
	}
	mins, _ := s.DurationMinutes()
	fmt.Printf("Awake at %s after %s of sleep.\n", s.End.Format("15:04"), timecalc.FormatMinutes(mins))
	return nil
}

func runSleepResume(cmd *cobra.Command, args []string) error {
	s, err := app.ResumeSleep(cmd.Context())
	if err != nil {
		fail(err)
	}
	fmt.Printf("Resumed sleep started at %s\n", s.Start.Format("15:04"))
	return nil
}

func runSleepReset(cmd *cobra.Command, args []string) error {
	if err := app.ResetSleep(cmd.Context()); err != nil {
		fail(err)
	}
	fmt.Println("Discarded the running sleep.")
	return nil
}

func runSleepLog(cmd *cobra.Command, args []string) error {
	now := app.Now()
	start, err := parseWhen(now, args[0])
	if err != nil {
		return err
	}
	end, err := parseWhen(now, args[1])
	if err != nil {
		return err
	}
	// "22:30 01:10" crosses midnight: both resolve relative to now, so a
	// start after the end belongs to the day before.
	if start.After(end) {
		start = start.AddDate(0, 0, -1)
	}

	s, err := app.LogSleep(cmd.Context(), start, end)
	if err != nil {
		fail(err)
	}
	mins, _ := s.DurationMinutes()
	fmt.Printf("Logged sleep %s–%s (%s)\n", s.Start.Format("15:04"), s.End.Format("15:04"), timecalc.FormatMinutes(mins))
	return nil
}
