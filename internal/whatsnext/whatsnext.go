// Package whatsnext turns a day snapshot into the short lines and suggested
// actions shown by `babytime status` and `babytime watch`.
package whatsnext

import (
	"fmt"

	"github.com/Tiliavir/babytime/internal/dayengine"
	"github.com/Tiliavir/babytime/internal/timecalc"
)

// Action is something the caregiver is prompted to do.
type Action string

const (
	ActionStartNap Action = "start_nap"
	ActionEndNap   Action = "end_nap"
	ActionFeed     Action = "feed"
)

// Label is the prompt text, including the command that performs the action.
func (a Action) Label() string {
	switch a {
	case ActionStartNap:
		return "Start nap (babytime sleep start)"
	case ActionEndNap:
		return "Wake baby (babytime sleep stop)"
	case ActionFeed:
		return "Feed (babytime feed start | feed bottle <oz>)"
	}
	return string(a)
}

// Headline describes the sleep/wake track.
func Headline(st dayengine.DayState) string {
	switch s := st.(type) {
	case dayengine.NotStarted:
		return "Day not started. Log a wake time or the first feed or sleep."
	case dayengine.AwakeEarly:
		return fmt.Sprintf("Awake %s · nap window opens in %s (%s min)",
			timecalc.FormatMinutes(s.WakeMinutes), timecalc.FormatMinutes(s.Window.Min-s.WakeMinutes), s.Window)
	case dayengine.AwakeApproaching:
		return fmt.Sprintf("Awake %s · ready for a nap (%s min)",
			timecalc.FormatMinutes(s.WakeMinutes), s.Window)
	case dayengine.AwakeBeyond:
		return fmt.Sprintf("Awake %s · %s past the wake window (%s min)",
			timecalc.FormatMinutes(s.WakeMinutes), timecalc.FormatMinutes(s.WakeMinutes-s.Window.Max), s.Window)
	case dayengine.SleepingNoPressure:
		return fmt.Sprintf("Asleep %s · %s until nap cutoff",
			timecalc.FormatMinutes(s.SleepMinutes), timecalc.FormatMinutes(s.MinutesUntilCutoff))
	case dayengine.SleepingApproachingCutoff:
		return fmt.Sprintf("Asleep %s · wake within %s to protect bedtime",
			timecalc.FormatMinutes(s.SleepMinutes), timecalc.FormatMinutes(s.MinutesUntilCutoff))
	case dayengine.SleepingMustEnd:
		if s.MinutesPastCutoff == 0 {
			return fmt.Sprintf("Asleep %s · nap cutoff reached, wake now", timecalc.FormatMinutes(s.SleepMinutes))
		}
		return fmt.Sprintf("Asleep %s · %s past nap cutoff, wake now",
			timecalc.FormatMinutes(s.SleepMinutes), timecalc.FormatMinutes(s.MinutesPastCutoff))
	case dayengine.NapWindowClosed:
		return fmt.Sprintf("Awake %s · no more naps, bedtime in %s",
			timecalc.FormatMinutes(s.WakeMinutes), timecalc.FormatMinutes(s.MinutesToBedtime))
	case dayengine.BedtimeWindow:
		if s.MinutesToBedtime == 0 {
			return "Bedtime now"
		}
		return fmt.Sprintf("Bedtime in %s", timecalc.FormatMinutes(s.MinutesToBedtime))
	}
	return fmt.Sprint(st)
}

// FeedLine describes the feeding track.
func FeedLine(st dayengine.FeedState) string {
	switch s := st.(type) {
	case dayengine.NoFeedsYet:
		return "No feeds yet today"
	case dayengine.RecentlyFed:
		return fmt.Sprintf("Fed %s ago", timecalc.FormatMinutes(s.MinutesAgo))
	case dayengine.FeedApproaching:
		return fmt.Sprintf("Fed %s ago · next feed soon (every %s min)",
			timecalc.FormatMinutes(s.MinutesAgo), s.Interval)
	case dayengine.FeedReady:
		return fmt.Sprintf("Fed %s ago · ready to feed (every %s min)",
			timecalc.FormatMinutes(s.MinutesAgo), s.Interval)
	case dayengine.FeedingNow:
		return fmt.Sprintf("Feeding for %s", timecalc.FormatMinutes(s.StartedMinutesAgo))
	}
	return fmt.Sprint(st)
}

// Actions lists what the snapshot prompts for, sleep first.
func Actions(snap dayengine.DaySnapshot) []Action {
	var out []Action
	switch snap.DayState.(type) {
	case dayengine.AwakeApproaching, dayengine.AwakeBeyond:
		out = append(out, ActionStartNap)
	case dayengine.SleepingMustEnd:
		out = append(out, ActionEndNap)
	}
	switch snap.FeedState.(type) {
	case dayengine.FeedApproaching, dayengine.FeedReady:
		out = append(out, ActionFeed)
	}
	return out
}
