// Package dayengine derives where a baby is in its day from today's feed and
// sleep events. Everything here is pure: time is always passed in, inputs are
// never modified and nothing is logged or persisted.
package dayengine

import (
	"time"

	"github.com/Tiliavir/babytime/internal/agetable"
	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
)

const (
	// cutoffWarningMinutes is how close to the nap cutoff a nap counts as
	// approaching it.
	cutoffWarningMinutes = 30
	// bedtimeWindowMinutes is how close to bedtime the bedtime window opens.
	bedtimeWindowMinutes = 30
	// feedApproachingRatio of the interval's lower bound marks a feed as
	// approaching.
	feedApproachingRatio = 0.8
)

// Snapshot derives the state of the day for baby at now. The caller picks
// which events belong to "today"; wakeTime is an optional manual wake-up.
func Snapshot(baby model.Baby, feeds []model.FeedEvent, sleeps []model.SleepEvent, wakeTime *time.Time, now time.Time) DaySnapshot {
	bracket := agetable.ForAge(baby.AgeInDays(now))
	bedtime := baby.BedtimeOn(now)
	cutoff := NapCutoff(bedtime, bracket.LastWakeWindow())
	interval := EffectiveFeedInterval(baby, bracket)

	var (
		completedNaps int
		lastSleepEnd  *time.Time
		activeSleep   *model.SleepEvent
	)
	for i := range sleeps {
		s := &sleeps[i]
		if s.End == nil {
			if activeSleep == nil {
				activeSleep = s
			}
			continue
		}
		completedNaps++
		if lastSleepEnd == nil || s.End.After(*lastSleepEnd) {
			lastSleepEnd = s.End
		}
	}

	var (
		completedFeeds int
		lastFeed       *model.FeedEvent
		activeFeed     *model.FeedEvent
	)
	for i := range feeds {
		f := &feeds[i]
		if f.IsActive() {
			if activeFeed == nil {
				activeFeed = f
			}
			continue
		}
		if !f.IsCompleted() {
			continue
		}
		completedFeeds++
		if lastFeed == nil || f.Start.After(lastFeed.Start) {
			lastFeed = f
		}
	}

	totalFeeds := completedFeeds
	if activeFeed != nil {
		totalFeeds++
	}

	wakeRef := lastSleepEnd
	if wakeRef == nil {
		wakeRef = wakeTime
	}
	if wakeRef == nil {
		wakeRef = earliestStart(feeds, sleeps)
	}

	snap := DaySnapshot{
		DayState: deriveDayState(dayInputs{
			activeSleep: activeSleep,
			wakeRef:     wakeRef,
			now:         now,
			window:      bracket.CurrentWakeWindow(completedNaps),
			cutoff:      cutoff,
			bedtime:     bedtime,
		}),
		FeedState:      deriveFeedState(activeFeed, lastFeed, now, interval),
		CompletedNaps:  completedNaps,
		TotalFeedCount: totalFeeds,
		NapCutoff:      cutoff,
		Bedtime:        bedtime,
		Bracket:        bracket,
		FeedInterval:   interval,
	}
	if wakeTime != nil {
		wt := *wakeTime
		snap.WakeTime = &wt
	}
	return snap
}

// NapCutoff is the latest instant a nap may still run: bedtime minus the
// last wake window's upper bound.
func NapCutoff(bedtime time.Time, lastWakeWindow agetable.Range) time.Time {
	return bedtime.Add(-time.Duration(lastWakeWindow.Max) * time.Minute)
}

// EffectiveFeedInterval resolves the feed interval to use: the baby's own
// interval when set, otherwise the bracket default.
func EffectiveFeedInterval(baby model.Baby, bracket agetable.Bracket) agetable.Range {
	if baby.FeedIntervalMinutes > 0 {
		return agetable.Range{Min: baby.FeedIntervalMinutes, Max: baby.FeedIntervalMinutes}
	}
	return bracket.FeedInterval
}

type dayInputs struct {
	activeSleep *model.SleepEvent
	wakeRef     *time.Time
	now         time.Time
	window      agetable.Range
	cutoff      time.Time
	bedtime     time.Time
}

func deriveDayState(in dayInputs) DayState {
	if in.wakeRef == nil {
		return NotStarted{}
	}

	if in.activeSleep != nil {
		slept := timecalc.Minutes(in.activeSleep.Start, in.now)
		untilCutoff := timecalc.Minutes(in.now, in.cutoff)
		switch {
		case untilCutoff <= 0:
			return SleepingMustEnd{SleepMinutes: slept, MinutesPastCutoff: -untilCutoff}
		case untilCutoff <= cutoffWarningMinutes:
			return SleepingApproachingCutoff{SleepMinutes: slept, MinutesUntilCutoff: untilCutoff}
		default:
			return SleepingNoPressure{SleepMinutes: slept, MinutesUntilCutoff: untilCutoff}
		}
	}

	awake := timecalc.Minutes(*in.wakeRef, in.now)
	toBedtime := timecalc.Minutes(in.now, in.bedtime)

	switch {
	case toBedtime > 0 && toBedtime <= bedtimeWindowMinutes:
		return BedtimeWindow{MinutesToBedtime: toBedtime}
	case toBedtime <= 0:
		return BedtimeWindow{MinutesToBedtime: 0}
	case !in.now.Before(in.cutoff):
		return NapWindowClosed{WakeMinutes: awake, MinutesToBedtime: toBedtime}
	case awake < in.window.Min:
		return AwakeEarly{WakeMinutes: awake, Window: in.window}
	case awake <= in.window.Max:
		return AwakeApproaching{WakeMinutes: awake, Window: in.window}
	default:
		return AwakeBeyond{WakeMinutes: awake, Window: in.window}
	}
}

func deriveFeedState(active, last *model.FeedEvent, now time.Time, interval agetable.Range) FeedState {
	if active != nil {
		return FeedingNow{StartedMinutesAgo: timecalc.Minutes(active.Start, now)}
	}
	if last == nil {
		return NoFeedsYet{}
	}

	ago := timecalc.Minutes(last.Start, now)
	approaching := int(float64(interval.Min) * feedApproachingRatio)

	switch {
	case ago >= interval.Min:
		return FeedReady{MinutesAgo: ago, Interval: interval}
	case ago >= approaching:
		return FeedApproaching{MinutesAgo: ago, Interval: interval}
	default:
		return RecentlyFed{MinutesAgo: ago}
	}
}

func earliestStart(feeds []model.FeedEvent, sleeps []model.SleepEvent) *time.Time {
	var first *time.Time
	consider := func(t time.Time) {
		if first == nil || t.Before(*first) {
			first = &t
		}
	}
	for _, f := range feeds {
		consider(f.Start)
	}
	for _, s := range sleeps {
		consider(s.Start)
	}
	return first
}
