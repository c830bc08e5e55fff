package model

import (
	"fmt"
	"time"

	"github.com/Tiliavir/babytime/internal/timecalc"
)

const (
	DefaultBedtimeHour     = 19
	DefaultBedtimeMinute   = 0
	DefaultDreamFeedHour   = 22
	DefaultDreamFeedMinute = 30
)

// Baby is the profile the day is computed for. Bedtime and dream feed are
// stored as wall-clock hour/minute so they follow the local calendar.
type Baby struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`

	BedtimeHour   int `json:"bedtime_hour"`
	BedtimeMinute int `json:"bedtime_minute"`

	// FeedIntervalMinutes overrides the age table's feed interval. 0 = unset.
	FeedIntervalMinutes int `json:"feed_interval_minutes"`

	DreamFeedEnabled bool `json:"dream_feed_enabled"`
	DreamFeedHour    int  `json:"dream_feed_hour"`
	DreamFeedMinute  int  `json:"dream_feed_minute"`

	CreatedAt time.Time `json:"created_at"`
}

// AgeInDays returns the whole days elapsed between birth and ref, never
// negative.
func (b Baby) AgeInDays(ref time.Time) int {
	return max(0, timecalc.DaysBetween(b.BirthDate, ref))
}

// BedtimeOn returns the bedtime on ref's calendar day, in ref's location.
func (b Baby) BedtimeOn(ref time.Time) time.Time {
	return timecalc.AtClock(ref, b.BedtimeHour, b.BedtimeMinute)
}

// DreamFeedOn returns the dream feed time on ref's day, or nil when disabled.
func (b Baby) DreamFeedOn(ref time.Time) *time.Time {
	if !b.DreamFeedEnabled {
		return nil
	}
	t := timecalc.AtClock(ref, b.DreamFeedHour, b.DreamFeedMinute)
	return &t
}

// AgeDescription renders "3 months old" or "12 days old". A month is 30 days.
func (b Baby) AgeDescription(ref time.Time) string {
	days := b.AgeInDays(ref)
	if months := days / 30; months > 0 {
		return fmt.Sprintf("%d month%s old", months, plural(months))
	}
	return fmt.Sprintf("%d day%s old", days, plural(days))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
