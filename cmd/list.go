package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
	"github.com/Tiliavir/babytime/internal/tracker"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged feeds and sleeps",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's events")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's events")
}

func runList(cmd *cobra.Command, args []string) error {
	now := app.Now()

	var from, to time.Time
	switch {
	case listWeek:
		from, to = timecalc.WeekRange(now)
	default:
		// Default to today (covers --today and the bare command).
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	days, err := app.Range(cmd.Context(), from, to)
	if err != nil {
		fail(err)
	}

	printList(os.Stdout, days)
	return nil
}

// listEntry is one line of the timeline, feed or sleep.
type listEntry struct {
	start   time.Time
	end     *time.Time
	running bool
	kind    string
	detail  string
}

func timeline(d tracker.Day) []listEntry {
	var entries []listEntry
	for _, f := range d.Feeds {
		e := listEntry{start: f.Start, kind: "Feed", detail: f.Description()}
		if f.Kind == model.FeedNursing {
			e.end = f.End
			e.running = f.IsActive()
		}
		entries = append(entries, e)
	}
	for _, s := range d.Sleeps {
		detail := ""
		if mins, ok := s.DurationMinutes(); ok {
			detail = timecalc.FormatMinutes(mins)
		}
		entries = append(entries, listEntry{start: s.Start, end: s.End, running: s.IsActive(), kind: "Sleep", detail: detail})
	}
	slices.SortStableFunc(entries, func(a, b listEntry) int { return a.start.Compare(b.start) })
	return entries
}

// printList groups events by date and prints them.
func printList(w io.Writer, days []tracker.Day) {
	printed := false
	for _, d := range days {
		entries := timeline(d)
		if len(entries) == 0 && d.WakeTime == nil {
			continue
		}
		printed = true
		fmt.Fprintln(w, d.Date.Format(time.DateOnly))
		if d.WakeTime != nil {
			fmt.Fprintf(w, "%-13s  Wake\n", d.WakeTime.Format("15:04"))
		}
		for _, e := range entries {
			span := e.start.Format("15:04")
			if e.end != nil {
				span += "–" + e.end.Format("15:04")
			} else if e.running {
				span += "–ongoing"
			}
			fmt.Fprintf(w, "%-13s  %-5s  %s\n", span, e.kind, e.detail)
		}
	}
	if !printed {
		fmt.Fprintln(w, "No entries found.")
	}
}
