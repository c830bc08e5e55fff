package model

import "time"

// DayFile is the top-level structure stored for each calendar day.
type DayFile struct {
	Date     string       `json:"date"`
	// WakeTime is the manually recorded morning wake-up, if any.
	WakeTime *time.Time   `json:"wake_time,omitempty"`
	Feeds    []FeedEvent  `json:"feeds"`
	Sleeps   []SleepEvent `json:"sleeps"`
}

// NewDayFile returns an empty DayFile for t's calendar day.
func NewDayFile(t time.Time) DayFile {
	return DayFile{
		Date:   t.Format(time.DateOnly),
		Feeds:  []FeedEvent{},
		Sleeps: []SleepEvent{},
	}
}
