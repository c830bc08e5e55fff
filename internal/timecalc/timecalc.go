package timecalc

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID creates a unique event ID from a timestamp and a random suffix.
func GenerateID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), suffix)
}

// Minutes returns the whole minutes from a to b, truncated toward zero.
func Minutes(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// FormatMinutes formats minutes as "1h 25m" from an hour upward and "45m"
// below. Negative values render as "0m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatTimer formats an elapsed duration as MM:SS. Minutes are not wrapped
// at the hour.
func FormatTimer(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AtClock returns hour:minute:00 on ref's calendar day in ref's location.
func AtClock(ref time.Time, hour, minute int) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
}

// DaysBetween counts whole calendar days from a to b. A day only counts once
// b's wall clock has reached a's, so 15:00 to 14:00 the next day is 0.
func DaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	days := int(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	switch {
	case days > 0 && b.Before(a.AddDate(0, 0, days)):
		days--
	case days < 0 && b.After(a.AddDate(0, 0, days)):
		days++
	}
	return days
}

// ParseClock parses "HH:MM" (24h) and returns that time on ref's day.
func ParseClock(ref time.Time, s string) (time.Time, error) {
	c, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want HH:MM: %w", s, err)
	}
	return AtClock(ref, c.Hour(), c.Minute()), nil
}
