package model

import (
	"fmt"
	"time"
)

// FeedKind distinguishes bottle feeds from nursing sessions.
type FeedKind string

const (
	FeedBottle  FeedKind = "bottle"
	FeedNursing FeedKind = "nursing"
)

// BottleSource is what went into a bottle.
type BottleSource string

const (
	SourceBreastMilk BottleSource = "breast_milk"
	SourceFormula    BottleSource = "formula"
)

// NursingSide records which side a nursing session used.
type NursingSide string

const (
	SideLeft  NursingSide = "left"
	SideRight NursingSide = "right"
	SideBoth  NursingSide = "both"
)

// ParseNursingSide accepts "left", "right" or "both" (empty means both).
func ParseNursingSide(s string) (NursingSide, error) {
	switch NursingSide(s) {
	case SideLeft, SideRight, SideBoth:
		return NursingSide(s), nil
	case "":
		return SideBoth, nil
	}
	return "", fmt.Errorf("unknown nursing side %q (want left, right or both)", s)
}

// ParseBottleSource accepts "breast_milk" or "formula" (empty means breast milk).
func ParseBottleSource(s string) (BottleSource, error) {
	switch BottleSource(s) {
	case SourceBreastMilk, SourceFormula:
		return BottleSource(s), nil
	case "":
		return SourceBreastMilk, nil
	}
	return "", fmt.Errorf("unknown bottle source %q (want breast_milk or formula)", s)
}

// FeedEvent is a single feed. End is nil while a nursing session is running;
// bottle feeds are logged complete.
type FeedEvent struct {
	ID       string       `json:"id"`
	Start    time.Time    `json:"start"`
	End      *time.Time   `json:"end"`
	Kind     FeedKind     `json:"kind"`
	Source   BottleSource `json:"source,omitempty"`
	AmountOz float64      `json:"amount_oz,omitempty"`
	Side     NursingSide  `json:"side,omitempty"`
}

// IsActive reports a nursing session that has not ended yet.
func (f FeedEvent) IsActive() bool {
	return f.Kind == FeedNursing && f.End == nil
}

// IsCompleted reports whether the feed counts as finished. Anything that is
// not a nursing session (bottles, unknown kinds) always does.
func (f FeedEvent) IsCompleted() bool {
	return f.Kind != FeedNursing || f.End != nil
}

// DurationMinutes returns the whole minutes between start and end, or false
// while the feed is still running.
func (f FeedEvent) DurationMinutes() (int, bool) {
	return durationMinutes(f.Start, f.End)
}

// EstimatedOz returns the bottle volume, or an estimate for nursing derived
// from the session length and an age-dependent rate.
func (f FeedEvent) EstimatedOz(nursingOzPerMinute float64) float64 {
	if f.Kind == FeedBottle {
		return f.AmountOz
	}
	mins, _ := f.DurationMinutes()
	return float64(mins) * nursingOzPerMinute
}

// ShortDescription is "4 oz" for bottles and "12 min" for nursing.
func (f FeedEvent) ShortDescription() string {
	if f.Kind == FeedBottle {
		return fmt.Sprintf("%d oz", int(f.AmountOz))
	}
	mins, _ := f.DurationMinutes()
	return fmt.Sprintf("%d min", mins)
}

// Description is the longer form used in listings.
func (f FeedEvent) Description() string {
	switch f.Kind {
	case FeedBottle:
		src := "Breast milk"
		if f.Source == SourceFormula {
			src = "Formula"
		}
		return fmt.Sprintf("%s · %d oz", src, int(f.AmountOz))
	default:
		side := f.Side
		if side == "" {
			side = SideBoth
		}
		return fmt.Sprintf("Nursing %s · %s", side, f.ShortDescription())
	}
}

// SleepEvent is a nap or night sleep. End is nil while the baby is asleep.
type SleepEvent struct {
	ID    string     `json:"id"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// IsActive reports a sleep that has not ended yet.
func (s SleepEvent) IsActive() bool {
	return s.End == nil
}

// DurationMinutes returns the whole minutes slept, or false while asleep.
func (s SleepEvent) DurationMinutes() (int, bool) {
	return durationMinutes(s.Start, s.End)
}

func durationMinutes(start time.Time, end *time.Time) (int, bool) {
	if end == nil {
		return 0, false
	}
	return max(0, int(end.Sub(start)/time.Minute)), true
}
