package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
	"github.com/Tiliavir/babytime/internal/tracker"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show daily feed and sleep totals for the week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type dayReport struct {
	Date                string  `json:"date"`
	Feeds               int     `json:"feeds"`
	IntakeOz            float64 `json:"intake_oz"`
	Naps                int     `json:"naps"`
	SleepMinutes        int     `json:"sleep_minutes"`
	LongestSleepMinutes int     `json:"longest_sleep_minutes"`
}

type weekReport struct {
	Week    string      `json:"week"`
	Baby    string      `json:"baby"`
	Days    []dayReport `json:"days"`
	// Average is taken over the days that have any events.
	Average dayReport   `json:"average"`
}

func runReport(cmd *cobra.Command, args []string) error {
	now := app.Now()
	ctx := cmd.Context()

	baby, err := app.Baby(ctx)
	if err != nil {
		fail(err)
	}

	from, to := timecalc.WeekRange(now)
	days, err := app.Range(ctx, from, to)
	if err != nil {
		fail(err)
	}

	rep := buildReport(baby, timecalc.ISOWeekLabel(now), days)
	if err := printReport(os.Stdout, reportFormat, rep); err != nil {
		fail(err)
	}
	return nil
}

func buildReport(baby model.Baby, label string, days []tracker.Day) weekReport {
	rep := weekReport{Week: label, Baby: baby.Name, Days: []dayReport{}}
	var sum dayReport
	active := 0
	for _, d := range days {
		s := tracker.Summarize(baby, d, timecalc.EndOfDay(d.Date))
		row := dayReport{
			Date:                d.Date.Format(time.DateOnly),
			Feeds:               s.FeedCount,
			IntakeOz:            s.TotalIntakeOz,
			Naps:                s.NapCount,
			SleepMinutes:        s.TotalSleepMinutes,
			LongestSleepMinutes: s.LongestSleepMinutes,
		}
		rep.Days = append(rep.Days, row)
		if len(d.Feeds) == 0 && len(d.Sleeps) == 0 {
			continue
		}
		active++
		sum.Feeds += row.Feeds
		sum.IntakeOz += row.IntakeOz
		sum.Naps += row.Naps
		sum.SleepMinutes += row.SleepMinutes
		sum.LongestSleepMinutes = max(sum.LongestSleepMinutes, row.LongestSleepMinutes)
	}
	if active > 0 {
		rep.Average = dayReport{
			Date:                "average",
			Feeds:               sum.Feeds / active,
			IntakeOz:            sum.IntakeOz / float64(active),
			Naps:                sum.Naps / active,
			SleepMinutes:        sum.SleepMinutes / active,
			LongestSleepMinutes: sum.LongestSleepMinutes,
		}
	}
	return rep
}

func printReport(w io.Writer, format string, rep weekReport) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "date,feeds,intake_oz,naps,sleep_minutes,longest_sleep_minutes")
		for _, d := range rep.Days {
			fmt.Fprintf(w, "%s,%d,%.1f,%d,%d,%d\n", d.Date, d.Feeds, d.IntakeOz, d.Naps, d.SleepMinutes, d.LongestSleepMinutes)
		}
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default: // md
		fmt.Fprintf(w, "Week %s · %s\n", rep.Week, rep.Baby)
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "%-12s%6s%10s%6s%10s\n", "Date", "Feeds", "Intake", "Naps", "Sleep")
		for _, d := range rep.Days {
			fmt.Fprintf(w, "%-12s%6d%7.1f oz%6d%10s\n", d.Date, d.Feeds, d.IntakeOz, d.Naps, timecalc.FormatMinutes(d.SleepMinutes))
		}
		fmt.Fprintln(w, "--------------------------------------------------")
		a := rep.Average
		fmt.Fprintf(w, "%-12s%6d%7.1f oz%6d%10s\n", "Average", a.Feeds, a.IntakeOz, a.Naps, timecalc.FormatMinutes(a.SleepMinutes))
	}
	return nil
}
