// Package storage persists baby profiles and each baby's days. Two
// backends exist: JSON day files (the default) and SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/babytime/internal/config"
	"github.com/Tiliavir/babytime/internal/logfields"
	"github.com/Tiliavir/babytime/internal/model"
)

// ErrNotFound is returned when an event ID does not exist on the given day.
var ErrNotFound = errors.New("event not found")

// ErrBabyNotFound is returned when a baby ID is not stored.
var ErrBabyNotFound = errors.New("baby not found")

// Store persists baby profiles, the selected baby, and per-baby days.
type Store interface {
	// Babies returns every profile, oldest CreatedAt first.
	Babies(ctx context.Context) ([]model.Baby, error)
	// SaveBaby inserts or replaces the profile with baby.ID.
	SaveBaby(ctx context.Context, baby model.Baby) error
	// DeleteBaby removes the profile and all of its days.
	DeleteBaby(ctx context.Context, id string) error
	// SelectedBaby returns the selected baby's ID, or "" when none is set.
	SelectedBaby(ctx context.Context) (string, error)
	SelectBaby(ctx context.Context, id string) error
	// Days returns the day store of one baby.
	Days(babyID string) DayStore
	Close() error
}

// DayStore reads and writes one baby's days.
type DayStore interface {
	// LoadDay returns an empty DayFile when nothing is stored for day.
	LoadDay(ctx context.Context, day time.Time) (model.DayFile, error)
	SaveDay(ctx context.Context, day time.Time, df model.DayFile) error
}

// validBabyID rejects IDs that cannot be used as a directory name.
func validBabyID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid baby id %q", id)
	}
	return nil
}

func sortBabies(babies []model.Baby) {
	slices.SortStableFunc(babies, func(a, b model.Baby) int { return a.CreatedAt.Compare(b.CreatedAt) })
}

// activeLookbackDays is how far back FindActive* search for an event that
// was left running, so a nap or feed spanning midnight is still found.
const activeLookbackDays = 7

// Open creates the Store selected by cfg.
func Open(cfg config.Config) (Store, error) {
	path := cfg.StoragePath()
	slog.Debug("Opening store", logfields.Backend(cfg.Storage.Backend), logfields.Path(path))
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return NewSQLiteStore(path)
	case config.BackendFile, "":
		return NewFileStore(path), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// UpdateFeed replaces or appends a feed in the day it belongs to.
func UpdateFeed(ctx context.Context, s DayStore, day time.Time, feed model.FeedEvent) error {
	df, err := s.LoadDay(ctx, day)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(df.Feeds, func(f model.FeedEvent) bool { return f.ID == feed.ID }); i >= 0 {
		df.Feeds[i] = feed
	} else {
		df.Feeds = append(df.Feeds, feed)
	}
	return s.SaveDay(ctx, day, df)
}

// UpdateSleep replaces or appends a sleep in the day it belongs to.
func UpdateSleep(ctx context.Context, s DayStore, day time.Time, sleep model.SleepEvent) error {
	df, err := s.LoadDay(ctx, day)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(df.Sleeps, func(e model.SleepEvent) bool { return e.ID == sleep.ID }); i >= 0 {
		df.Sleeps[i] = sleep
	} else {
		df.Sleeps = append(df.Sleeps, sleep)
	}
	return s.SaveDay(ctx, day, df)
}

// RemoveFeed deletes a feed by ID.
func RemoveFeed(ctx context.Context, s DayStore, day time.Time, id string) error {
	df, err := s.LoadDay(ctx, day)
	if err != nil {
		return err
	}
	n := len(df.Feeds)
	df.Feeds = slices.DeleteFunc(df.Feeds, func(f model.FeedEvent) bool { return f.ID == id })
	if len(df.Feeds) == n {
		return fmt.Errorf("feed %s on %s: %w", id, df.Date, ErrNotFound)
	}
	return s.SaveDay(ctx, day, df)
}

// RemoveSleep deletes a sleep by ID.
func RemoveSleep(ctx context.Context, s DayStore, day time.Time, id string) error {
	df, err := s.LoadDay(ctx, day)
	if err != nil {
		return err
	}
	n := len(df.Sleeps)
	df.Sleeps = slices.DeleteFunc(df.Sleeps, func(e model.SleepEvent) bool { return e.ID == id })
	if len(df.Sleeps) == n {
		return fmt.Errorf("sleep %s on %s: %w", id, df.Date, ErrNotFound)
	}
	return s.SaveDay(ctx, day, df)
}

// SetWakeTime records (or clears, when wake is nil) the manual wake time of day.
func SetWakeTime(ctx context.Context, s DayStore, day time.Time, wake *time.Time) error {
	df, err := s.LoadDay(ctx, day)
	if err != nil {
		return err
	}
	df.WakeTime = wake
	return s.SaveDay(ctx, day, df)
}

// FindActiveNursing searches today and the previous days (most recent first)
// for a nursing session without an end. It returns the event and its day.
func FindActiveNursing(ctx context.Context, s DayStore, now time.Time) (*model.FeedEvent, time.Time, error) {
	for i := 0; i < activeLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := s.LoadDay(ctx, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		for j := len(df.Feeds) - 1; j >= 0; j-- {
			if df.Feeds[j].IsActive() {
				return &df.Feeds[j], day, nil
			}
		}
	}
	return nil, time.Time{}, nil
}

// FindActiveSleep searches today and the previous days (most recent first)
// for a sleep without an end. It returns the event and its day.
func FindActiveSleep(ctx context.Context, s DayStore, now time.Time) (*model.SleepEvent, time.Time, error) {
	for i := 0; i < activeLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := s.LoadDay(ctx, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		for j := len(df.Sleeps) - 1; j >= 0; j-- {
			if df.Sleeps[j].IsActive() {
				return &df.Sleeps[j], day, nil
			}
		}
	}
	return nil, time.Time{}, nil
}

// FindLastEndedSleep searches the same window as FindActiveSleep for the
// finished sleep with the latest end, so a nap that crossed midnight is
// still found. It returns the event and the day it is stored under.
func FindLastEndedSleep(ctx context.Context, s DayStore, now time.Time) (*model.SleepEvent, time.Time, error) {
	var (
		last    *model.SleepEvent
		lastDay time.Time
	)
	for i := 0; i < activeLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := s.LoadDay(ctx, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		for j := range df.Sleeps {
			e := df.Sleeps[j]
			if e.End == nil || e.End.After(now) {
				continue
			}
			if last == nil || e.End.After(*last.End) {
				last, lastDay = &e, day
			}
		}
	}
	return last, lastDay, nil
}

// LoadRange loads every day in [from, to] inclusive, in order.
func LoadRange(ctx context.Context, s DayStore, from, to time.Time) ([]model.DayFile, error) {
	var days []model.DayFile
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := s.LoadDay(ctx, d)
		if err != nil {
			return nil, err
		}
		days = append(days, df)
	}
	return days, nil
}
