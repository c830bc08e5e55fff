package dayengine

import (
	"fmt"
	"time"

	"github.com/Tiliavir/babytime/internal/agetable"
)

// DayState is the sleep/wake track. It is a closed set: the concrete types
// below are the only implementations.
type DayState interface {
	isDayState()
	fmt.Stringer
}

// NotStarted means nothing has been logged today and no wake time is known.
type NotStarted struct{}

// AwakeEarly means the baby woke recently and is early in the wake window.
type AwakeEarly struct {
	WakeMinutes int
	Window      agetable.Range
}

// AwakeApproaching means the baby is inside the wake window; a nap is due.
type AwakeApproaching struct {
	WakeMinutes int
	Window      agetable.Range
}

// AwakeBeyond means the wake window has been exceeded.
type AwakeBeyond struct {
	WakeMinutes int
	Window      agetable.Range
}

// SleepingNoPressure is a nap with more than 30 minutes before the cutoff.
type SleepingNoPressure struct {
	SleepMinutes       int
	MinutesUntilCutoff int
}

// SleepingApproachingCutoff is a nap within 30 minutes of the cutoff.
type SleepingApproachingCutoff struct {
	SleepMinutes       int
	MinutesUntilCutoff int
}

// SleepingMustEnd is a nap running at or past the cutoff.
type SleepingMustEnd struct {
	SleepMinutes      int
	MinutesPastCutoff int
}

// NapWindowClosed means the cutoff has passed; the baby stays up until bed.
type NapWindowClosed struct {
	WakeMinutes      int
	MinutesToBedtime int
}

// BedtimeWindow means bedtime is at most 30 minutes away, or already past
// (MinutesToBedtime is then 0).
type BedtimeWindow struct {
	MinutesToBedtime int
}

func (NotStarted) isDayState()                {}
func (AwakeEarly) isDayState()                {}
func (AwakeApproaching) isDayState()          {}
func (AwakeBeyond) isDayState()               {}
func (SleepingNoPressure) isDayState()        {}
func (SleepingApproachingCutoff) isDayState() {}
func (SleepingMustEnd) isDayState()           {}
func (NapWindowClosed) isDayState()           {}
func (BedtimeWindow) isDayState()             {}

func (NotStarted) String() string { return "notStarted" }

func (s AwakeEarly) String() string {
	return fmt.Sprintf("awakeEarly(%d, %s)", s.WakeMinutes, s.Window)
}

func (s AwakeApproaching) String() string {
	return fmt.Sprintf("awakeApproaching(%d, %s)", s.WakeMinutes, s.Window)
}

func (s AwakeBeyond) String() string {
	return fmt.Sprintf("awakeBeyond(%d, %s)", s.WakeMinutes, s.Window)
}

func (s SleepingNoPressure) String() string {
	return fmt.Sprintf("sleepingNoPressure(%d, %d)", s.SleepMinutes, s.MinutesUntilCutoff)
}

func (s SleepingApproachingCutoff) String() string {
	return fmt.Sprintf("sleepingApproachingCutoff(%d, %d)", s.SleepMinutes, s.MinutesUntilCutoff)
}

func (s SleepingMustEnd) String() string {
	return fmt.Sprintf("sleepingMustEnd(%d, %d)", s.SleepMinutes, s.MinutesPastCutoff)
}

func (s NapWindowClosed) String() string {
	return fmt.Sprintf("napWindowClosed(%d, %d)", s.WakeMinutes, s.MinutesToBedtime)
}

func (s BedtimeWindow) String() string {
	return fmt.Sprintf("bedtimeWindow(%d)", s.MinutesToBedtime)
}

// FeedState is the feeding track, derived independently of DayState.
type FeedState interface {
	isFeedState()
	fmt.Stringer
}

// NoFeedsYet means no completed or running feed today.
type NoFeedsYet struct{}

// RecentlyFed means the last feed is well within the interval.
type RecentlyFed struct {
	MinutesAgo int
}

// FeedApproaching means at least 80% of the interval's lower bound has passed.
type FeedApproaching struct {
	MinutesAgo int
	Interval   agetable.Range
}

// FeedReady means the interval's lower bound has been reached.
type FeedReady struct {
	MinutesAgo int
	Interval   agetable.Range
}

// FeedingNow means a nursing session is running.
type FeedingNow struct {
	StartedMinutesAgo int
}

func (NoFeedsYet) isFeedState()      {}
func (RecentlyFed) isFeedState()     {}
func (FeedApproaching) isFeedState() {}
func (FeedReady) isFeedState()       {}
func (FeedingNow) isFeedState()      {}

func (NoFeedsYet) String() string { return "noFeedsYet" }

func (s RecentlyFed) String() string {
	return fmt.Sprintf("recentlyFed(%d)", s.MinutesAgo)
}

func (s FeedApproaching) String() string {
	return fmt.Sprintf("approaching(%d, %s)", s.MinutesAgo, s.Interval)
}

func (s FeedReady) String() string {
	return fmt.Sprintf("ready(%d, %s)", s.MinutesAgo, s.Interval)
}

func (s FeedingNow) String() string {
	return fmt.Sprintf("feedingNow(%d)", s.StartedMinutesAgo)
}

// DaySnapshot is the engine's output. It is a value recomputed on every call.
type DaySnapshot struct {
	DayState       DayState
	FeedState      FeedState
	CompletedNaps  int
	TotalFeedCount int
	NapCutoff      time.Time
	Bedtime        time.Time
	Bracket        agetable.Bracket
	FeedInterval   agetable.Range
	WakeTime       *time.Time
}
