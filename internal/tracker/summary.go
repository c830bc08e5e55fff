package tracker

import (
	"context"
	"math"
	"time"

	"github.com/Tiliavir/babytime/internal/agetable"
	"github.com/Tiliavir/babytime/internal/dayengine"
	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/timecalc"
)

// DaySummary holds the running totals shown next to the snapshot.
type DaySummary struct {
	FeedCount           int
	NapCount            int
	TotalIntakeOz       float64
	AverageOz           float64
	TotalSleepMinutes   int
	LongestSleepMinutes int

	// RemainingOz is what is left of the bracket's daily intake midpoint.
	RemainingOz   float64
	// OfferAmountOz spreads RemainingOz over the feeds still expected today.
	OfferAmountOz int

	LastFeed  *model.FeedEvent
	LastSleep *model.SleepEvent

	NextFeedAt           *time.Time
	MinutesSinceLastFeed *int
	MinutesSinceLastWake *int
}

// Summary totals today's events for the selected baby.
func (t *Tracker) Summary(ctx context.Context) (DaySummary, error) {
	baby, d, err := t.babyToday(ctx)
	if err != nil {
		return DaySummary{}, err
	}
	return Summarize(baby, d, t.now()), nil
}

// Summarize computes the summary of d as seen at now.
func Summarize(baby model.Baby, d Day, now time.Time) DaySummary {
	bracket := agetable.ForAge(baby.AgeInDays(now))
	sum := DaySummary{FeedCount: len(d.Feeds)}

	for i := range d.Feeds {
		f := &d.Feeds[i]
		sum.TotalIntakeOz += f.EstimatedOz(bracket.NursingOzPerMinute)
		if sum.LastFeed == nil || !f.Start.Before(sum.LastFeed.Start) {
			sum.LastFeed = f
		}
	}
	if sum.FeedCount > 0 {
		sum.AverageOz = sum.TotalIntakeOz / float64(sum.FeedCount)
	}

	for i := range d.Sleeps {
		s := &d.Sleeps[i]
		mins, ended := s.DurationMinutes()
		if !ended {
			continue
		}
		sum.NapCount++
		sum.TotalSleepMinutes += mins
		sum.LongestSleepMinutes = max(sum.LongestSleepMinutes, mins)
		if sum.LastSleep == nil || s.End.After(*sum.LastSleep.End) {
			sum.LastSleep = s
		}
	}

	sum.RemainingOz = math.Max(0, bracket.DailyIntakeOz.Midpoint()-sum.TotalIntakeOz)
	remainingFeeds := math.Max(1, bracket.FeedsPerDay.Midpoint()-float64(sum.FeedCount))
	sum.OfferAmountOz = max(1, int(math.Round(sum.RemainingOz/remainingFeeds)))

	if sum.LastFeed != nil {
		interval := dayengine.EffectiveFeedInterval(baby, bracket)
		next := sum.LastFeed.Start.Add(time.Duration(interval.Midpoint() * float64(time.Minute)))
		sum.NextFeedAt = &next
		mins := timecalc.Minutes(sum.LastFeed.Start, now)
		sum.MinutesSinceLastFeed = &mins
	}
	if sum.LastSleep != nil {
		mins := timecalc.Minutes(*sum.LastSleep.End, now)
		sum.MinutesSinceLastWake = &mins
	}
	return sum
}

// TimerString renders a running or finished timer as MM:SS. A running timer
// (end == nil) counts up to at.
func TimerString(start time.Time, end *time.Time, at time.Time) string {
	ref := at
	if end != nil {
		ref = *end
	}
	return timecalc.FormatTimer(ref.Sub(start))
}
