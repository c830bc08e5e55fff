package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/dayengine"
	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
	"github.com/Tiliavir/babytime/internal/tracker"
	"github.com/Tiliavir/babytime/internal/whatsnext"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what's next: sleep, feeds and today's totals",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := renderStatus(cmd.Context(), os.Stdout); err != nil {
		fail(err)
	}
	return nil
}

// statusView is everything printStatus needs, gathered up front so the
// printing itself does no I/O besides writing.
type statusView struct {
	Baby          model.Baby
	Snapshot      dayengine.DaySnapshot
	Summary       tracker.DaySummary
	ActiveNursing *model.FeedEvent
	ActiveSleep   *model.SleepEvent
	Now           time.Time
}

func renderStatus(ctx context.Context, w io.Writer) error {
	baby, err := app.Baby(ctx)
	if err != nil {
		return err
	}
	snap, err := app.Snapshot(ctx)
	if err != nil {
		return err
	}
	sum, err := app.Summary(ctx)
	if err != nil {
		return err
	}
	nursing, err := app.ActiveNursing(ctx)
	if err != nil {
		return err
	}
	sleep, err := app.ActiveSleep(ctx)
	if err != nil {
		return err
	}
	printStatus(w, statusView{
		Baby:          baby,
		Snapshot:      snap,
		Summary:       sum,
		ActiveNursing: nursing,
		ActiveSleep:   sleep,
		Now:           app.Now(),
	})
	return nil
}

func printStatus(w io.Writer, v statusView) {
	snap, sum := v.Snapshot, v.Summary

	fmt.Fprintf(w, "%s · %s · %s\n", v.Baby.Name, v.Baby.AgeDescription(v.Now), v.Now.Format("Monday, January 2 15:04"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", whatsnext.Headline(snap.DayState))
	fmt.Fprintf(w, "  %s\n", whatsnext.FeedLine(snap.FeedState))

	if v.ActiveSleep != nil || v.ActiveNursing != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Running:")
		if v.ActiveSleep != nil {
			fmt.Fprintf(w, "  Sleep    since %s  %s\n", v.ActiveSleep.Start.Format("15:04"),
				tracker.TimerString(v.ActiveSleep.Start, nil, v.Now))
		}
		if v.ActiveNursing != nil {
			fmt.Fprintf(w, "  Nursing  since %s  %s (%s)\n", v.ActiveNursing.Start.Format("15:04"),
				tracker.TimerString(v.ActiveNursing.Start, nil, v.Now), v.ActiveNursing.Side)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Today:")
	if snap.WakeTime != nil {
		fmt.Fprintf(w, "  Woke up       %s\n", snap.WakeTime.Format("15:04"))
	}
	fmt.Fprintf(w, "  Naps          %d (%s asleep", sum.NapCount, timecalc.FormatMinutes(sum.TotalSleepMinutes))
	if sum.LongestSleepMinutes > 0 {
		fmt.Fprintf(w, ", longest %s", timecalc.FormatMinutes(sum.LongestSleepMinutes))
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "  Feeds         %d (%.0f oz", sum.FeedCount, sum.TotalIntakeOz)
	if sum.FeedCount > 0 {
		fmt.Fprintf(w, ", avg %.1f oz", sum.AverageOz)
	}
	fmt.Fprintln(w, ")")
	if sum.LastFeed != nil {
		fmt.Fprintf(w, "  Last feed     %s · %s\n", sum.LastFeed.Start.Format("15:04"), sum.LastFeed.ShortDescription())
	}
	if sum.NextFeedAt != nil {
		fmt.Fprintf(w, "  Next feed     ~%s, offer %d oz\n", sum.NextFeedAt.Format("15:04"), sum.OfferAmountOz)
	}
	fmt.Fprintf(w, "  Nap cutoff    %s\n", snap.NapCutoff.Format("15:04"))
	fmt.Fprintf(w, "  Bedtime       %s\n", snap.Bedtime.Format("15:04"))
	if df := v.Baby.DreamFeedOn(v.Now); df != nil {
		fmt.Fprintf(w, "  Dream feed    %s\n", df.Format("15:04"))
	}

	if actions := whatsnext.Actions(snap); len(actions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Next:")
		for _, a := range actions {
			fmt.Fprintf(w, "  → %s\n", a.Label())
		}
	}
}
