package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wakeClear bool

var wakeCmd = &cobra.Command{
	Use:   "wake [HH:MM]",
	Short: "Record when the baby woke up for the day",
	Long: `Record the morning wake time. It anchors the first wake window when no
sleep has been logged yet today. Without an argument the current time is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWake,
}

func init() {
	wakeCmd.Flags().BoolVar(&wakeClear, "clear", false, "Remove today's wake time")
}

func runWake(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if wakeClear {
		if err := app.ClearWakeTime(ctx); err != nil {
			fail(err)
		}
		fmt.Println("Cleared today's wake time.")
		return nil
	}

	var s string
	if len(args) == 1 {
		s = args[0]
	}
	at, err := parseWhen(app.Now(), s)
	if err != nil {
		return err
	}
	if err := app.SetWakeTime(ctx, at); err != nil {
		fail(err)
	}
	fmt.Printf("Woke up at %s\n", at.Format("15:04"))
	return nil
}
