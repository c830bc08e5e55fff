package dayengine

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/babytime/internal/agetable"
	"github.com/Tiliavir/babytime/internal/model"
)

var testNow = time.Date(2026, 2, 11, 14, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 2, 11, hour, minute, 0, 0, time.UTC)
}

func makeBaby(ageDays int, ref time.Time) model.Baby {
	return model.Baby{
		ID:            "baby-1",
		Name:          "Test",
		BirthDate:     ref.AddDate(0, 0, -ageDays),
		BedtimeHour:   19,
		BedtimeMinute: 0,
	}
}

func ago(ref time.Time, minutes int) time.Time {
	return ref.Add(-time.Duration(minutes) * time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

// bottle feed started minutesAgo, ended ten minutes later.
func makeFeed(ref time.Time, minutesAgo int) model.FeedEvent {
	start := ago(ref, minutesAgo)
	return model.FeedEvent{
		ID:       "feed",
		Start:    start,
		End:      ptr(start.Add(10 * time.Minute)),
		Kind:     model.FeedBottle,
		AmountOz: 4,
	}
}

func makeNursing(ref time.Time, minutesAgo int, active bool) model.FeedEvent {
	start := ago(ref, minutesAgo)
	f := model.FeedEvent{ID: "nurse", Start: start, Kind: model.FeedNursing, Side: model.SideLeft}
	if !active {
		f.End = ptr(start.Add(15 * time.Minute))
	}
	return f
}

func makeSleep(ref time.Time, startedMinutesAgo, durationMinutes int) model.SleepEvent {
	start := ago(ref, startedMinutesAgo)
	return model.SleepEvent{ID: "sleep", Start: start, End: ptr(start.Add(time.Duration(durationMinutes) * time.Minute))}
}

func makeActiveSleep(ref time.Time, startedMinutesAgo int) model.SleepEvent {
	return model.SleepEvent{ID: "active-sleep", Start: ago(ref, startedMinutesAgo)}
}

func TestSnapshotNoEvents(t *testing.T) {
	snap := Snapshot(makeBaby(100, testNow), nil, nil, nil, testNow)

	assert.Equal(t, NotStarted{}, snap.DayState)
	assert.Equal(t, NoFeedsYet{}, snap.FeedState)
	assert.Zero(t, snap.CompletedNaps)
	assert.Zero(t, snap.TotalFeedCount)
	assert.Nil(t, snap.WakeTime)
	assert.Equal(t, "3-4 months", snap.Bracket.Label)
	assert.Equal(t, at(19, 0), snap.Bedtime)
	assert.Equal(t, at(17, 0), snap.NapCutoff)
}

func TestSnapshotAwakeStates(t *testing.T) {
	tests := []struct {
		name   string
		feeds  []model.FeedEvent
		sleeps []model.SleepEvent
		want   DayState
	}{
		{
			name:   "early after one nap",
			feeds:  []model.FeedEvent{makeFeed(testNow, 30)},
			sleeps: []model.SleepEvent{makeSleep(testNow, 60, 30)},
			want:   AwakeEarly{WakeMinutes: 30, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "approaching after one nap",
			feeds:  []model.FeedEvent{makeFeed(testNow, 120)},
			sleeps: []model.SleepEvent{makeSleep(testNow, 125, 30)},
			want:   AwakeApproaching{WakeMinutes: 95, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "beyond after one nap",
			feeds:  []model.FeedEvent{makeFeed(testNow, 150)},
			sleeps: []model.SleepEvent{makeSleep(testNow, 140, 30)},
			want:   AwakeBeyond{WakeMinutes: 110, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "awake minutes equal lower bound",
			sleeps: []model.SleepEvent{makeSleep(testNow, 120, 30)},
			want:   AwakeApproaching{WakeMinutes: 90, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "one minute below lower bound",
			sleeps: []model.SleepEvent{makeSleep(testNow, 119, 30)},
			want:   AwakeEarly{WakeMinutes: 89, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "awake minutes equal upper bound",
			sleeps: []model.SleepEvent{makeSleep(testNow, 135, 30)},
			want:   AwakeApproaching{WakeMinutes: 105, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:   "one minute above upper bound",
			sleeps: []model.SleepEvent{makeSleep(testNow, 136, 30)},
			want:   AwakeBeyond{WakeMinutes: 106, Window: agetable.Range{Min: 90, Max: 105}},
		},
		{
			name:  "first event of the day is the wake reference",
			feeds: []model.FeedEvent{makeFeed(testNow, 80), makeFeed(testNow, 20)},
			want:  AwakeApproaching{WakeMinutes: 80, Window: agetable.Range{Min: 75, Max: 90}},
		},
		{
			name: "latest sleep end wins regardless of order",
			sleeps: []model.SleepEvent{
				makeSleep(testNow, 60, 30),
				makeSleep(testNow, 240, 60),
			},
			want: AwakeEarly{WakeMinutes: 30, Window: agetable.Range{Min: 90, Max: 105}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot(makeBaby(90, testNow), tt.feeds, tt.sleeps, nil, testNow)
			assert.Equal(t, tt.want, snap.DayState)
		})
	}
}

func TestSnapshotSleepingStates(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		slept int
		want  DayState
	}{
		{"no pressure", at(14, 0), 20, SleepingNoPressure{SleepMinutes: 20, MinutesUntilCutoff: 180}},
		{"31 minutes to cutoff", at(16, 29), 40, SleepingNoPressure{SleepMinutes: 40, MinutesUntilCutoff: 31}},
		{"30 minutes to cutoff", at(16, 30), 40, SleepingApproachingCutoff{SleepMinutes: 40, MinutesUntilCutoff: 30}},
		{"approaching cutoff", at(16, 40), 40, SleepingApproachingCutoff{SleepMinutes: 40, MinutesUntilCutoff: 20}},
		{"exactly at cutoff", at(17, 0), 40, SleepingMustEnd{SleepMinutes: 40, MinutesPastCutoff: 0}},
		{"past cutoff", at(18, 30), 30, SleepingMustEnd{SleepMinutes: 30, MinutesPastCutoff: 90}},
		{"past bedtime still asleep", at(19, 30), 60, SleepingMustEnd{SleepMinutes: 60, MinutesPastCutoff: 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeds := []model.FeedEvent{makeFeed(tt.now, 120)}
			sleeps := []model.SleepEvent{makeActiveSleep(tt.now, tt.slept)}
			snap := Snapshot(makeBaby(90, tt.now), feeds, sleeps, nil, tt.now)
			assert.Equal(t, tt.want, snap.DayState)
		})
	}
}

func TestSnapshotActiveSleepAloneStartsTheDay(t *testing.T) {
	sleeps := []model.SleepEvent{makeActiveSleep(testNow, 20)}
	snap := Snapshot(makeBaby(90, testNow), nil, sleeps, nil, testNow)
	assert.Equal(t, SleepingNoPressure{SleepMinutes: 20, MinutesUntilCutoff: 180}, snap.DayState)
	assert.Zero(t, snap.CompletedNaps)
}

func TestSnapshotEveningStates(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want DayState
	}{
		{"nap window closed", at(17, 30), NapWindowClosed{WakeMinutes: 90, MinutesToBedtime: 90}},
		{"cutoff instant closes the nap window", at(17, 0), NapWindowClosed{WakeMinutes: 90, MinutesToBedtime: 120}},
		{"31 minutes before bedtime", at(18, 29), NapWindowClosed{WakeMinutes: 90, MinutesToBedtime: 31}},
		{"30 minutes before bedtime", at(18, 30), BedtimeWindow{MinutesToBedtime: 30}},
		{"bedtime window", at(18, 45), BedtimeWindow{MinutesToBedtime: 15}},
		{"at bedtime", at(19, 0), BedtimeWindow{MinutesToBedtime: 0}},
		{"past bedtime clamps to zero", at(20, 15), BedtimeWindow{MinutesToBedtime: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeps := []model.SleepEvent{makeSleep(tt.now, 120, 30)}
			feeds := []model.FeedEvent{makeFeed(tt.now, 60)}
			snap := Snapshot(makeBaby(90, tt.now), feeds, sleeps, nil, tt.now)
			assert.Equal(t, tt.want, snap.DayState)
		})
	}
}

func TestSnapshotWakeTime(t *testing.T) {
	t.Run("sole wake reference", func(t *testing.T) {
		wake := ago(testNow, 60)
		snap := Snapshot(makeBaby(100, testNow), nil, nil, &wake, testNow)
		assert.Equal(t, AwakeEarly{WakeMinutes: 60, Window: agetable.Range{Min: 75, Max: 90}}, snap.DayState)
		require.NotNil(t, snap.WakeTime)
		assert.Equal(t, wake, *snap.WakeTime)
	})

	t.Run("ignored when a sleep has ended", func(t *testing.T) {
		wake := ago(testNow, 7*60)
		sleeps := []model.SleepEvent{makeSleep(testNow, 60, 30)}
		feeds := []model.FeedEvent{makeFeed(testNow, 30)}
		snap := Snapshot(makeBaby(90, testNow), feeds, sleeps, &wake, testNow)
		assert.Equal(t, AwakeEarly{WakeMinutes: 30, Window: agetable.Range{Min: 90, Max: 105}}, snap.DayState)
	})

	t.Run("beats first event when no sleep has ended", func(t *testing.T) {
		wake := ago(testNow, 80)
		feeds := []model.FeedEvent{makeFeed(testNow, 30)}
		snap := Snapshot(makeBaby(90, testNow), feeds, nil, &wake, testNow)
		assert.Equal(t, AwakeApproaching{WakeMinutes: 80, Window: agetable.Range{Min: 75, Max: 90}}, snap.DayState)
	})

	t.Run("snapshot does not alias the caller's value", func(t *testing.T) {
		wake := ago(testNow, 60)
		snap := Snapshot(makeBaby(100, testNow), nil, nil, &wake, testNow)
		wake = wake.Add(time.Hour)
		assert.Equal(t, ago(testNow, 60), *snap.WakeTime)
	})
}

func TestSnapshotProgressiveWakeWindows(t *testing.T) {
	feeds := []model.FeedEvent{makeFeed(testNow, 180), makeFeed(testNow, 60)}
	sleeps := []model.SleepEvent{
		makeSleep(testNow, 150, 40),
		makeSleep(testNow, 60, 30),
	}
	snap := Snapshot(makeBaby(90, testNow), feeds, sleeps, nil, testNow)

	assert.Equal(t, AwakeEarly{WakeMinutes: 30, Window: agetable.Range{Min: 90, Max: 105}}, snap.DayState)
	assert.Equal(t, 2, snap.CompletedNaps)
	assert.Equal(t, 2, snap.TotalFeedCount)
}

func TestSnapshotWakeWindowClampsAfterManyNaps(t *testing.T) {
	var sleeps []model.SleepEvent
	for i := range 6 {
		start := at(8, 30*i)
		sleeps = append(sleeps, model.SleepEvent{Start: start, End: ptr(start.Add(10 * time.Minute))})
	}
	snap := Snapshot(makeBaby(90, testNow), nil, sleeps, nil, testNow)

	assert.Equal(t, 6, snap.CompletedNaps)
	assert.Equal(t, AwakeBeyond{WakeMinutes: 200, Window: agetable.Range{Min: 105, Max: 120}}, snap.DayState)
}

func TestSnapshotFeedStates(t *testing.T) {
	tests := []struct {
		name  string
		feeds []model.FeedEvent
		want  FeedState
	}{
		{"no feeds", nil, NoFeedsYet{}},
		{"recently fed", []model.FeedEvent{makeFeed(testNow, 30)}, RecentlyFed{MinutesAgo: 30}},
		{"one below approaching threshold", []model.FeedEvent{makeFeed(testNow, 119)}, RecentlyFed{MinutesAgo: 119}},
		{"approaching threshold", []model.FeedEvent{makeFeed(testNow, 120)}, FeedApproaching{MinutesAgo: 120, Interval: agetable.Range{Min: 150, Max: 210}}},
		{"approaching", []model.FeedEvent{makeFeed(testNow, 125)}, FeedApproaching{MinutesAgo: 125, Interval: agetable.Range{Min: 150, Max: 210}}},
		{"ready at lower bound", []model.FeedEvent{makeFeed(testNow, 150)}, FeedReady{MinutesAgo: 150, Interval: agetable.Range{Min: 150, Max: 210}}},
		{"ready", []model.FeedEvent{makeFeed(testNow, 160)}, FeedReady{MinutesAgo: 160, Interval: agetable.Range{Min: 150, Max: 210}}},
		{"latest feed by start", []model.FeedEvent{makeFeed(testNow, 30), makeFeed(testNow, 200)}, RecentlyFed{MinutesAgo: 30}},
		{"nursing in progress", []model.FeedEvent{makeFeed(testNow, 30), makeNursing(testNow, 12, true)}, FeedingNow{StartedMinutesAgo: 12}},
		{"ended nursing counts as completed", []model.FeedEvent{makeFeed(testNow, 200), makeNursing(testNow, 45, false)}, RecentlyFed{MinutesAgo: 45}},
		{"bottle without end is complete", []model.FeedEvent{{Start: ago(testNow, 160), Kind: model.FeedBottle}}, FeedReady{MinutesAgo: 160, Interval: agetable.Range{Min: 150, Max: 210}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot(makeBaby(90, testNow), tt.feeds, nil, nil, testNow)
			assert.Equal(t, tt.want, snap.FeedState)
		})
	}
}

func TestSnapshotFeedCount(t *testing.T) {
	feeds := []model.FeedEvent{
		makeFeed(testNow, 300),
		makeNursing(testNow, 200, false),
		makeNursing(testNow, 5, true),
	}
	snap := Snapshot(makeBaby(90, testNow), feeds, nil, nil, testNow)
	assert.Equal(t, 3, snap.TotalFeedCount)
	assert.Equal(t, FeedingNow{StartedMinutesAgo: 5}, snap.FeedState)
}

func TestSnapshotCustomFeedInterval(t *testing.T) {
	custom := agetable.Range{Min: 120, Max: 120}
	tests := []struct {
		name       string
		minutesAgo int
		want       FeedState
	}{
		{"recently fed", 60, RecentlyFed{MinutesAgo: 60}},
		{"just under threshold", 95, RecentlyFed{MinutesAgo: 95}},
		{"threshold", 96, FeedApproaching{MinutesAgo: 96, Interval: custom}},
		{"approaching", 100, FeedApproaching{MinutesAgo: 100, Interval: custom}},
		{"ready", 130, FeedReady{MinutesAgo: 130, Interval: custom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baby := makeBaby(90, testNow)
			baby.FeedIntervalMinutes = 120
			snap := Snapshot(baby, []model.FeedEvent{makeFeed(testNow, tt.minutesAgo)}, nil, nil, testNow)
			assert.Equal(t, tt.want, snap.FeedState)
			assert.Equal(t, custom, snap.FeedInterval)
		})
	}
}

func TestEffectiveFeedInterval(t *testing.T) {
	bracket := agetable.ForAge(90)
	baby := makeBaby(90, testNow)

	assert.Equal(t, agetable.Range{Min: 150, Max: 210}, EffectiveFeedInterval(baby, bracket))

	baby.FeedIntervalMinutes = 180
	assert.Equal(t, agetable.Range{Min: 180, Max: 180}, EffectiveFeedInterval(baby, bracket))

	baby.FeedIntervalMinutes = -5
	assert.Equal(t, bracket.FeedInterval, EffectiveFeedInterval(baby, bracket))
}

func TestFeedStateIndependentOfSleep(t *testing.T) {
	feeds := []model.FeedEvent{makeFeed(testNow, 160)}
	scenarios := [][]model.SleepEvent{
		nil,
		{makeActiveSleep(testNow, 20)},
		{makeSleep(testNow, 60, 30)},
		{makeSleep(testNow, 300, 60), makeSleep(testNow, 100, 45), makeActiveSleep(testNow, 5)},
	}
	want := FeedReady{MinutesAgo: 160, Interval: agetable.Range{Min: 150, Max: 210}}
	for i, sleeps := range scenarios {
		snap := Snapshot(makeBaby(90, testNow), feeds, sleeps, nil, testNow)
		assert.Equal(t, want, snap.FeedState, "scenario %d", i)
	}

	sleeping := Snapshot(makeBaby(90, testNow), feeds, scenarios[1], nil, testNow)
	assert.IsType(t, SleepingNoPressure{}, sleeping.DayState)
}

func TestSnapshotIsIdempotentAndPure(t *testing.T) {
	wake := ago(testNow, 400)
	feeds := []model.FeedEvent{makeFeed(testNow, 200), makeNursing(testNow, 10, true)}
	sleeps := []model.SleepEvent{makeSleep(testNow, 150, 45), makeActiveSleep(testNow, 15)}
	feedsBefore := slices.Clone(feeds)
	sleepsBefore := slices.Clone(sleeps)

	first := Snapshot(makeBaby(150, testNow), feeds, sleeps, &wake, testNow)
	second := Snapshot(makeBaby(150, testNow), feeds, sleeps, &wake, testNow)

	assert.Equal(t, first, second)
	assert.Equal(t, feedsBefore, feeds)
	assert.Equal(t, sleepsBefore, sleeps)
}

func TestSnapshotBracketFollowsAge(t *testing.T) {
	snap := Snapshot(makeBaby(200, testNow), nil, nil, nil, testNow)
	assert.Equal(t, "5-7 months", snap.Bracket.Label)
	assert.Equal(t, at(16, 0), snap.NapCutoff)
	assert.Equal(t, agetable.Range{Min: 180, Max: 240}, snap.FeedInterval)
}

func TestSnapshotBedtimeMinute(t *testing.T) {
	baby := makeBaby(90, testNow)
	baby.BedtimeHour = 18
	baby.BedtimeMinute = 45
	snap := Snapshot(baby, nil, nil, nil, testNow)
	assert.Equal(t, at(18, 45), snap.Bedtime)
	assert.Equal(t, at(16, 45), snap.NapCutoff)
}

func TestNapCutoff(t *testing.T) {
	tests := []struct {
		bedtimeHour int
		window      agetable.Range
		want        time.Time
	}{
		{19, agetable.Range{Min: 105, Max: 120}, at(17, 0)},
		{19, agetable.Range{Min: 150, Max: 180}, at(16, 0)},
		{20, agetable.Range{Min: 180, Max: 240}, at(16, 0)},
	}
	for _, tt := range tests {
		got := NapCutoff(at(tt.bedtimeHour, 0), tt.window)
		assert.Equal(t, tt.want, got, "bedtime %d:00 window %s", tt.bedtimeHour, tt.window)
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "notStarted", NotStarted{}.String())
	assert.Equal(t, "awakeApproaching(95, 90-105)", AwakeApproaching{95, agetable.Range{Min: 90, Max: 105}}.String())
	assert.Equal(t, "sleepingMustEnd(30, 90)", SleepingMustEnd{30, 90}.String())
	assert.Equal(t, "approaching(125, 150-210)", FeedApproaching{125, agetable.Range{Min: 150, Max: 210}}.String())
	assert.Equal(t, "ready(130, 120)", FeedReady{130, agetable.Range{Min: 120, Max: 120}}.String())
}
