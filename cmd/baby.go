package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/babytime/internal/agetable"
	"github.com/Tiliavir/babytime/internal/dayengine"
	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
	"github.com/Tiliavir/babytime/internal/tracker"
)

var (
	babyName         string
	babyBirth        string
	babyBedtime      string
	babyFeedInterval int
	babyDreamFeed    string
	babyNoDreamFeed  bool
)

var babyCmd = &cobra.Command{
	Use:   "baby",
	Short: "Manage baby profiles",
}

var babySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the selected baby's profile (creates one if none exists)",
	Args:  cobra.NoArgs,
	RunE:  runBabySet,
}

var babyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add another baby",
	Args:  cobra.NoArgs,
	RunE:  runBabyAdd,
}

var babyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List babies; the selected one is marked with *",
	Args:  cobra.NoArgs,
	RunE:  runBabyList,
}

var babyUseCmd = &cobra.Command{
	Use:   "use <name|id>",
	Short: "Select the baby that events are logged for",
	Args:  cobra.ExactArgs(1),
	RunE:  runBabyUse,
}

var babyRemoveCmd = &cobra.Command{
	Use:   "remove <name|id>",
	Short: "Delete a baby and all of its events",
	Args:  cobra.ExactArgs(1),
	RunE:  runBabyRemove,
}

var babyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the selected baby's profile and today's age-based targets",
	Args:  cobra.NoArgs,
	RunE:  runBabyShow,
}

func init() {
	for _, c := range []*cobra.Command{babySetCmd, babyAddCmd} {
		c.Flags().StringVar(&babyName, "name", "", "Baby's name")
		c.Flags().StringVar(&babyBirth, "birth", "", "Birth date (YYYY-MM-DD)")
		c.Flags().StringVar(&babyBedtime, "bedtime", "", "Bedtime (HH:MM, default 19:00)")
		c.Flags().IntVar(&babyFeedInterval, "feed-interval", 0, "Fixed feed interval in minutes (0 uses the age table)")
		c.Flags().StringVar(&babyDreamFeed, "dream-feed", "", "Enable a dream feed at HH:MM")
		c.Flags().BoolVar(&babyNoDreamFeed, "no-dream-feed", false, "Disable the dream feed")
	}

	babyCmd.AddCommand(babySetCmd)
	babyCmd.AddCommand(babyAddCmd)
	babyCmd.AddCommand(babyListCmd)
	babyCmd.AddCommand(babyUseCmd)
	babyCmd.AddCommand(babyRemoveCmd)
	babyCmd.AddCommand(babyShowCmd)
}

func newBaby() model.Baby {
	return model.Baby{
		BedtimeHour:     model.DefaultBedtimeHour,
		BedtimeMinute:   model.DefaultBedtimeMinute,
		DreamFeedHour:   model.DefaultDreamFeedHour,
		DreamFeedMinute: model.DefaultDreamFeedMinute,
	}
}

func runBabySet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := app.Now()

	baby, err := app.Baby(ctx)
	switch {
	case errors.Is(err, tracker.ErrNoBaby):
		baby = newBaby()
	case err != nil:
		fail(err)
	}

	if err := applyBabyFlags(cmd, &baby, now); err != nil {
		return err
	}

	saved, err := app.SaveBaby(ctx, baby)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Saved %s (%s).\n", saved.Name, saved.AgeDescription(now))
	return nil
}

func runBabyAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := app.Now()

	baby := newBaby()
	if err := applyBabyFlags(cmd, &baby, now); err != nil {
		return err
	}
	added, err := app.AddBaby(ctx, baby)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Added %s (%s).\n", added.Name, added.AgeDescription(now))

	current, err := app.Baby(ctx)
	if err != nil {
		fail(err)
	}
	if current.ID != added.ID {
		fmt.Printf("Still logging for %s. Switch with: babytime baby use %s\n", current.Name, added.Name)
	}
	return nil
}

// applyBabyFlags copies the flags the user actually passed onto b.
func applyBabyFlags(cmd *cobra.Command, b *model.Baby, now time.Time) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		b.Name = babyName
	}
	if flags.Changed("birth") {
		birth, err := time.ParseInLocation(time.DateOnly, babyBirth, now.Location())
		if err != nil {
			return fmt.Errorf("invalid birth date %q, want YYYY-MM-DD", babyBirth)
		}
		b.BirthDate = birth
	}
	if flags.Changed("bedtime") {
		t, err := timecalc.ParseClock(now, babyBedtime)
		if err != nil {
			return err
		}
		b.BedtimeHour, b.BedtimeMinute = t.Hour(), t.Minute()
	}
	if flags.Changed("feed-interval") {
		b.FeedIntervalMinutes = babyFeedInterval
	}
	if flags.Changed("dream-feed") {
		t, err := timecalc.ParseClock(now, babyDreamFeed)
		if err != nil {
			return err
		}
		b.DreamFeedEnabled = true
		b.DreamFeedHour, b.DreamFeedMinute = t.Hour(), t.Minute()
	}
	if babyNoDreamFeed {
		b.DreamFeedEnabled = false
	}
	return nil
}

func runBabyList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	babies, err := app.Babies(ctx)
	if err != nil {
		fail(err)
	}
	if len(babies) == 0 {
		fail(tracker.ErrNoBaby)
	}
	current, err := app.Baby(ctx)
	if err != nil {
		fail(err)
	}
	printBabies(os.Stdout, babies, current.ID, app.Now())
	return nil
}

func printBabies(w io.Writer, babies []model.Baby, selectedID string, now time.Time) {
	for _, b := range babies {
		mark := " "
		if b.ID == selectedID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-16s %-16s %s\n", mark, b.Name, b.AgeDescription(now), shortID(b.ID))
	}
}

// shortID is enough of a uuid to pass to `baby use`.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runBabyUse(cmd *cobra.Command, args []string) error {
	b, err := app.SelectBaby(cmd.Context(), args[0])
	if err != nil {
		fail(err)
	}
	fmt.Printf("Now logging for %s.\n", b.Name)
	return nil
}

func runBabyRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	removed, err := app.RemoveBaby(ctx, args[0])
	if err != nil {
		fail(err)
	}
	fmt.Printf("Removed %s and all of their events.\n", removed.Name)

	current, err := app.Baby(ctx)
	switch {
	case errors.Is(err, tracker.ErrNoBaby):
		fmt.Println("No babies left.")
	case err != nil:
		fail(err)
	default:
		fmt.Printf("Now logging for %s.\n", current.Name)
	}
	return nil
}

func runBabyShow(cmd *cobra.Command, args []string) error {
	now := app.Now()
	baby, err := app.Baby(cmd.Context())
	if err != nil {
		fail(err)
	}
	printBaby(baby, now)
	return nil
}

func printBaby(b model.Baby, now time.Time) {
	bracket := agetable.ForAge(b.AgeInDays(now))
	bedtime := b.BedtimeOn(now)

	fmt.Printf("%s, %s\n", b.Name, b.AgeDescription(now))
	fmt.Printf("  Born:          %s\n", b.BirthDate.Format(time.DateOnly))
	fmt.Printf("  Bedtime:       %s\n", bedtime.Format("15:04"))
	fmt.Printf("  Nap cutoff:    %s\n", dayengine.NapCutoff(bedtime, bracket.LastWakeWindow()).Format("15:04"))
	if df := b.DreamFeedOn(now); df != nil {
		fmt.Printf("  Dream feed:    %s\n", df.Format("15:04"))
	}
	fmt.Printf("  Age bracket:   %s\n", bracket.Label)
	fmt.Printf("  Naps per day:  %s\n", bracket.NapsPerDay)
	fmt.Print("  Wake windows: ")
	for _, w := range bracket.WakeWindows {
		fmt.Printf(" %s", w)
	}
	fmt.Println(" min")
	fmt.Printf("  Feed interval: %s min", dayengine.EffectiveFeedInterval(b, bracket))
	if b.FeedIntervalMinutes > 0 {
		fmt.Print(" (custom)")
	}
	fmt.Println()
	fmt.Printf("  Daily intake:  %s oz over %s feeds\n", bracket.DailyIntakeOz, bracket.FeedsPerDay)
	fmt.Printf("  Daily sleep:   %s h\n", bracket.DailySleepHours)
}
