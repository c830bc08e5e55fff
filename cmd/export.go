package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/timecalc"
	"github.com/Tiliavir/babytime/internal/tracker"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's events to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := app.Now()

	from, to := timecalc.WeekRange(now)

	days, err := app.Range(cmd.Context(), from, to)
	if err != nil {
		fail(err)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(days, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printList(os.Stdout, days)
	default: // csv
		printCSV(os.Stdout, days)
	}

	return nil
}

func printCSV(w io.Writer, days []tracker.Day) {
	fmt.Fprintln(w, "date,type,id,start,end,duration_minutes,amount_oz,detail")
	for _, d := range days {
		date := d.Date.Format(time.DateOnly)
		if d.WakeTime != nil {
			fmt.Fprintf(w, "%s,wake,,%s,,,,\n", date, csvEscape(d.WakeTime.Format(time.RFC3339)))
		}
		for _, f := range d.Feeds {
			dur := ""
			if mins, ok := f.DurationMinutes(); ok {
				dur = fmt.Sprint(mins)
			}
			amount := ""
			if f.AmountOz > 0 {
				amount = fmt.Sprintf("%g", f.AmountOz)
			}
			fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s\n",
				date,
				csvEscape(string(f.Kind)),
				csvEscape(f.ID),
				csvEscape(f.Start.Format(time.RFC3339)),
				csvEscape(formatEnd(f.End)),
				dur,
				amount,
				csvEscape(f.Description()),
			)
		}
		for _, s := range d.Sleeps {
			dur := ""
			if mins, ok := s.DurationMinutes(); ok {
				dur = fmt.Sprint(mins)
			}
			fmt.Fprintf(w, "%s,sleep,%s,%s,%s,%s,,\n",
				date,
				csvEscape(s.ID),
				csvEscape(s.Start.Format(time.RFC3339)),
				csvEscape(formatEnd(s.End)),
				dur,
			)
		}
	}
}

func formatEnd(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
