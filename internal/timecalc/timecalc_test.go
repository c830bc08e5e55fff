package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/babytime/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{-5, "0m"},
		{0, "0m"},
		{45, "45m"},
		{59, "59m"},
		{60, "1h 0m"},
		{85, "1h 25m"},
		{150, "2h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "00:00"},
		{0, "00:00"},
		{5*time.Minute + 30*time.Second, "05:30"},
		{61 * time.Minute, "61:00"},
	}
	for _, tt := range tests {
		got := timecalc.FormatTimer(tt.d)
		if got != tt.want {
			t.Errorf("FormatTimer(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestMinutesTruncates(t *testing.T) {
	a := time.Date(2026, 2, 11, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, timecalc.Minutes(a, a.Add(14*time.Minute+59*time.Second)))
	assert.Equal(t, -14, timecalc.Minutes(a.Add(14*time.Minute+59*time.Second), a))
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestDaysBetween(t *testing.T) {
	birth := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ref  time.Time
		want int
	}{
		{"same instant", birth, 0},
		{"next day before birth hour", time.Date(2026, 1, 11, 14, 0, 0, 0, time.UTC), 0},
		{"next day at birth hour", time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC), 1},
		{"ninety days", birth.AddDate(0, 0, 90), 90},
		{"before birth", time.Date(2026, 1, 8, 16, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timecalc.DaysBetween(birth, tt.ref))
		})
	}
}

func TestAtClockAndParseClock(t *testing.T) {
	ref := time.Date(2026, 2, 11, 14, 23, 45, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 11, 19, 0, 0, 0, time.UTC), timecalc.AtClock(ref, 19, 0))

	got, err := timecalc.ParseClock(ref, " 06:45 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 11, 6, 45, 0, 0, time.UTC), got)

	_, err = timecalc.ParseClock(ref, "7pm")
	assert.Error(t, err)
}

func TestGenerateID(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	id := timecalc.GenerateID(ts)
	if len(id) != len("20260227-083210-xxxxx") {
		t.Errorf("GenerateID length = %d, want %d", len(id), len("20260227-083210-xxxxx"))
	}
	if id[:15] != "20260227-083210" {
		t.Errorf("GenerateID prefix = %q, want %q", id[:15], "20260227-083210")
	}
	assert.NotEqual(t, id, timecalc.GenerateID(ts))
}
