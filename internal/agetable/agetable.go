// Package agetable holds the age-dependent thresholds a baby's day is
// measured against: progressive wake windows, feed intervals and daily
// targets.
package agetable

import "fmt"

// Range is a closed interval [Min, Max], in minutes unless noted otherwise.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the closed range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Midpoint returns the arithmetic middle of the range.
func (r Range) Midpoint() float64 {
	return float64(r.Min+r.Max) / 2
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Bracket is one row of the age table. MaxDays is exclusive; a zero MaxDays
// marks the open-ended final bracket.
type Bracket struct {
	Label   string
	MinDays int
	MaxDays int

	NapsPerDay Range

	// WakeWindows is indexed by the number of naps completed today. The last
	// entry is reused for every later window, including the run-up to bedtime.
	WakeWindows []Range

	FeedInterval       Range
	FeedsPerDay        Range
	NursingOzPerMinute float64
	DailyIntakeOz      Range
	DailySleepHours    Range
}

// Contains reports whether ageInDays falls in [MinDays, MaxDays).
func (b Bracket) Contains(ageInDays int) bool {
	if ageInDays < b.MinDays {
		return false
	}
	return b.MaxDays == 0 || ageInDays < b.MaxDays
}

// CurrentWakeWindow returns the wake window that applies after completedNaps
// naps. Counts beyond the table clamp to the last window.
func (b Bracket) CurrentWakeWindow(completedNaps int) Range {
	i := min(completedNaps, len(b.WakeWindows)-1)
	if i < 0 {
		i = 0
	}
	return b.WakeWindows[i]
}

// LastWakeWindow is the pre-bedtime window used for the nap cutoff.
func (b Bracket) LastWakeWindow() Range {
	return b.WakeWindows[len(b.WakeWindows)-1]
}

// Brackets is ordered by age and covers [0, ∞) without gaps.
//
//	| Age      | Naps | WW1      | WW2      | WW3      | WW4      | Last WW  |
//	|----------|------|----------|----------|----------|----------|----------|
//	| 0-2 mo   | 4-5  | 45-60    | 45-60    | 45-60    | 45-60    | 45-60    |
//	| 3-4 mo   | 3-4  | 75-90    | 90-105   | 90-105   | 105-120  | 105-120  |
//	| 5-7 mo   | 2-3  | 105-150  | 120-165  | 135-180  | -        | 150-180  |
//	| 8-10 mo  | 2    | 150-180  | 180-210  | -        | -        | 180-240  |
//	| 11-14 mo | 1-2  | 180-240  | 210-270  | -        | -        | 210-270  |
var Brackets = []Bracket{
	{
		Label:              "0-2 months",
		MinDays:            0,
		MaxDays:            60,
		NapsPerDay:         Range{4, 5},
		WakeWindows:        []Range{{45, 60}, {45, 60}, {45, 60}, {45, 60}, {45, 60}},
		FeedInterval:       Range{120, 180},
		FeedsPerDay:        Range{8, 12},
		NursingOzPerMinute: 0.1,
		DailyIntakeOz:      Range{14, 28},
		DailySleepHours:    Range{14, 17},
	},
	{
		Label:              "3-4 months",
		MinDays:            60,
		MaxDays:            120,
		NapsPerDay:         Range{3, 4},
		WakeWindows:        []Range{{75, 90}, {90, 105}, {90, 105}, {105, 120}, {105, 120}},
		FeedInterval:       Range{150, 210},
		FeedsPerDay:        Range{6, 8},
		NursingOzPerMinute: 0.2,
		DailyIntakeOz:      Range{24, 32},
		DailySleepHours:    Range{14, 17},
	},
	{
		Label:              "5-7 months",
		MinDays:            120,
		MaxDays:            210,
		NapsPerDay:         Range{2, 3},
		WakeWindows:        []Range{{105, 150}, {120, 165}, {135, 180}, {150, 180}},
		FeedInterval:       Range{180, 240},
		FeedsPerDay:        Range{5, 6},
		NursingOzPerMinute: 0.2,
		DailyIntakeOz:      Range{24, 36},
		DailySleepHours:    Range{12, 16},
	},
	{
		Label:              "8-10 months",
		MinDays:            210,
		MaxDays:            300,
		NapsPerDay:         Range{2, 2},
		WakeWindows:        []Range{{150, 180}, {180, 210}, {180, 240}},
		FeedInterval:       Range{210, 270},
		FeedsPerDay:        Range{4, 5},
		NursingOzPerMinute: 0.2,
		DailyIntakeOz:      Range{24, 32},
		DailySleepHours:    Range{12, 15},
	},
	{
		Label:              "11-14 months",
		MinDays:            300,
		MaxDays:            0,
		NapsPerDay:         Range{1, 2},
		WakeWindows:        []Range{{180, 240}, {210, 270}, {210, 270}},
		FeedInterval:       Range{210, 270},
		FeedsPerDay:        Range{4, 5},
		NursingOzPerMinute: 0.2,
		DailyIntakeOz:      Range{20, 28},
		DailySleepHours:    Range{12, 15},
	},
}

// ForAge returns the first bracket containing ageInDays, or the last bracket
// when none does. It never fails.
func ForAge(ageInDays int) Bracket {
	for _, b := range Brackets {
		if b.Contains(ageInDays) {
			return b
		}
	}
	return Brackets[len(Brackets)-1]
}
