package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/babytime/internal/model"
)

func TestBabyBedtimeAndDreamFeed(t *testing.T) {
	ref := time.Date(2026, 2, 11, 9, 15, 0, 0, time.UTC)
	b := model.Baby{BedtimeHour: 19, BedtimeMinute: 30, DreamFeedHour: 22, DreamFeedMinute: 30}

	assert.Equal(t, time.Date(2026, 2, 11, 19, 30, 0, 0, time.UTC), b.BedtimeOn(ref))
	assert.Nil(t, b.DreamFeedOn(ref))

	b.DreamFeedEnabled = true
	df := b.DreamFeedOn(ref)
	require.NotNil(t, df)
	assert.Equal(t, time.Date(2026, 2, 11, 22, 30, 0, 0, time.UTC), *df)
}

func TestBabyAge(t *testing.T) {
	ref := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		birth    time.Time
		wantDays int
		wantDesc string
	}{
		{ref, 0, "0 days old"},
		{ref.AddDate(0, 0, -1), 1, "1 day old"},
		{ref.AddDate(0, 0, -12), 12, "12 days old"},
		{ref.AddDate(0, 0, -30), 30, "1 month old"},
		{ref.AddDate(0, 0, -95), 95, "3 months old"},
		{ref.AddDate(0, 0, 3), 0, "0 days old"},
	}
	for _, tt := range tests {
		b := model.Baby{BirthDate: tt.birth}
		assert.Equal(t, tt.wantDays, b.AgeInDays(ref), "birth %v", tt.birth)
		assert.Equal(t, tt.wantDesc, b.AgeDescription(ref), "birth %v", tt.birth)
	}
}

func TestFeedEventCompletion(t *testing.T) {
	start := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	end := start.Add(14*time.Minute + 50*time.Second)

	bottle := model.FeedEvent{Start: start, Kind: model.FeedBottle, AmountOz: 4.5}
	assert.True(t, bottle.IsCompleted())
	assert.False(t, bottle.IsActive())
	assert.Equal(t, "4 oz", bottle.ShortDescription())
	assert.Equal(t, "Breast milk · 4 oz", bottle.Description())
	assert.InDelta(t, 4.5, bottle.EstimatedOz(0.2), 1e-9)

	nursing := model.FeedEvent{Start: start, Kind: model.FeedNursing, Side: model.SideLeft}
	assert.True(t, nursing.IsActive())
	assert.False(t, nursing.IsCompleted())
	_, ok := nursing.DurationMinutes()
	assert.False(t, ok)

	nursing.End = &end
	assert.False(t, nursing.IsActive())
	assert.True(t, nursing.IsCompleted())
	mins, ok := nursing.DurationMinutes()
	assert.True(t, ok)
	assert.Equal(t, 14, mins)
	assert.InDelta(t, 2.8, nursing.EstimatedOz(0.2), 1e-9)
	assert.Equal(t, "Nursing left · 14 min", nursing.Description())
}

func TestSleepEventDuration(t *testing.T) {
	start := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	s := model.SleepEvent{Start: start}
	assert.True(t, s.IsActive())

	end := start.Add(-time.Minute)
	s.End = &end
	mins, ok := s.DurationMinutes()
	assert.True(t, ok)
	assert.Zero(t, mins, "end before start clamps to zero")
}

func TestParseSideAndSource(t *testing.T) {
	side, err := model.ParseNursingSide("")
	require.NoError(t, err)
	assert.Equal(t, model.SideBoth, side)
	_, err = model.ParseNursingSide("middle")
	assert.Error(t, err)

	src, err := model.ParseBottleSource("formula")
	require.NoError(t, err)
	assert.Equal(t, model.SourceFormula, src)
	_, err = model.ParseBottleSource("juice")
	assert.Error(t, err)
}
