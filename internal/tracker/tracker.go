// Package tracker records feeds, sleeps and wake times against a Store and
// derives today's snapshot and summary from them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/babytime/internal/dayengine"
	"github.com/Tiliavir/babytime/internal/logfields"
	"github.com/Tiliavir/babytime/internal/model"
	"github.com/Tiliavir/babytime/internal/storage"
	"github.com/Tiliavir/babytime/internal/timecalc"
)

var (
	ErrNoBaby           = errors.New("no baby profile; run `babytime baby add` first")
	ErrUnknownBaby      = errors.New("no baby with that name or id")
	ErrAmbiguousBaby    = errors.New("more than one baby matches")
	ErrNoActiveNursing  = errors.New("no active nursing session")
	ErrNoActiveSleep    = errors.New("no active sleep")
	ErrNothingToResume  = errors.New("no finished sleep today to resume")
	ErrInvalidRange     = errors.New("end must be after start")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidBabyField = errors.New("invalid baby profile")
)

// Tracker is the write side of the app. It is safe to share between
// goroutines as long as the underlying Store is.
type Tracker struct {
	store storage.Store
	now   func() time.Time
}

// New returns a Tracker over store. A nil now uses time.Now.
func New(store storage.Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time { return t.now() }

// Babies returns every profile, oldest first.
func (t *Tracker) Babies(ctx context.Context) ([]model.Baby, error) {
	return t.store.Babies(ctx)
}

// Baby returns the selected profile. When no baby is selected, or the
// selection is stale, the oldest profile is used. ErrNoBaby means there are
// no profiles at all.
func (t *Tracker) Baby(ctx context.Context) (model.Baby, error) {
	babies, err := t.store.Babies(ctx)
	if err != nil {
		return model.Baby{}, err
	}
	if len(babies) == 0 {
		return model.Baby{}, ErrNoBaby
	}
	id, err := t.store.SelectedBaby(ctx)
	if err != nil {
		return model.Baby{}, err
	}
	if i := slices.IndexFunc(babies, func(b model.Baby) bool { return b.ID == id }); i >= 0 {
		return babies[i], nil
	}
	return babies[0], nil
}

// FindBaby resolves ref to a profile: an exact ID, then a case-insensitive
// name, then a unique ID prefix.
func (t *Tracker) FindBaby(ctx context.Context, ref string) (model.Baby, error) {
	ref = strings.TrimSpace(ref)
	babies, err := t.store.Babies(ctx)
	if err != nil {
		return model.Baby{}, err
	}
	if ref == "" {
		return model.Baby{}, fmt.Errorf("%w: %q", ErrUnknownBaby, ref)
	}
	if i := slices.IndexFunc(babies, func(b model.Baby) bool { return b.ID == ref }); i >= 0 {
		return babies[i], nil
	}
	for _, match := range []func(model.Baby) bool{
		func(b model.Baby) bool { return strings.EqualFold(b.Name, ref) },
		func(b model.Baby) bool { return strings.HasPrefix(b.ID, ref) },
	} {
		var found []model.Baby
		for _, b := range babies {
			if match(b) {
				found = append(found, b)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], nil
		default:
			return model.Baby{}, fmt.Errorf("%w: %q", ErrAmbiguousBaby, ref)
		}
	}
	return model.Baby{}, fmt.Errorf("%w: %q", ErrUnknownBaby, ref)
}

// AddBaby stores a new profile. The selection is left as it is; the first
// baby is used automatically until another is selected.
func (t *Tracker) AddBaby(ctx context.Context, b model.Baby) (model.Baby, error) {
	b.ID = ""
	b.CreatedAt = time.Time{}
	return t.SaveBaby(ctx, b)
}

// SelectBaby makes the baby matching ref the one all events are recorded
// against.
func (t *Tracker) SelectBaby(ctx context.Context, ref string) (model.Baby, error) {
	b, err := t.FindBaby(ctx, ref)
	if err != nil {
		return model.Baby{}, err
	}
	if err := t.store.SelectBaby(ctx, b.ID); err != nil {
		return model.Baby{}, err
	}
	slog.Info("Selected baby", logfields.BabyID(b.ID))
	return b, nil
}

// RemoveBaby deletes the baby matching ref together with its events. When
// the removed baby was selected, the oldest remaining one is selected.
func (t *Tracker) RemoveBaby(ctx context.Context, ref string) (model.Baby, error) {
	b, err := t.FindBaby(ctx, ref)
	if err != nil {
		return model.Baby{}, err
	}
	current, err := t.Baby(ctx)
	if err != nil {
		return model.Baby{}, err
	}
	if err := t.store.DeleteBaby(ctx, b.ID); err != nil {
		return model.Baby{}, err
	}
	slog.Info("Removed baby", logfields.BabyID(b.ID))
	if current.ID != b.ID {
		return b, nil
	}
	next := ""
	if rest, err := t.store.Babies(ctx); err != nil {
		return b, err
	} else if len(rest) > 0 {
		next = rest[0].ID
	}
	return b, t.store.SelectBaby(ctx, next)
}

// SaveBaby validates and stores the profile. A missing ID or CreatedAt is
// filled in.
func (t *Tracker) SaveBaby(ctx context.Context, b model.Baby) (model.Baby, error) {
	b.Name = strings.TrimSpace(b.Name)
	switch {
	case b.Name == "":
		return b, fmt.Errorf("%w: name is required", ErrInvalidBabyField)
	case b.BirthDate.IsZero():
		return b, fmt.Errorf("%w: birth date is required", ErrInvalidBabyField)
	case b.BirthDate.After(t.now()):
		return b, fmt.Errorf("%w: birth date is in the future", ErrInvalidBabyField)
	case !validClock(b.BedtimeHour, b.BedtimeMinute):
		return b, fmt.Errorf("%w: bedtime %02d:%02d", ErrInvalidBabyField, b.BedtimeHour, b.BedtimeMinute)
	case !validClock(b.DreamFeedHour, b.DreamFeedMinute):
		return b, fmt.Errorf("%w: dream feed %02d:%02d", ErrInvalidBabyField, b.DreamFeedHour, b.DreamFeedMinute)
	case b.FeedIntervalMinutes < 0:
		return b, fmt.Errorf("%w: feed interval must not be negative", ErrInvalidBabyField)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = t.now()
	}
	if err := t.store.SaveBaby(ctx, b); err != nil {
		return b, err
	}
	slog.Info("Saved baby profile", logfields.BabyID(b.ID))
	return b, nil
}

// days returns the day store of the selected baby.
func (t *Tracker) days(ctx context.Context) (storage.DayStore, error) {
	b, err := t.Baby(ctx)
	if err != nil {
		return nil, err
	}
	return t.store.Days(b.ID), nil
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

// ActiveNursing returns the running nursing session, or nil.
func (t *Tracker) ActiveNursing(ctx context.Context) (*model.FeedEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return nil, err
	}
	f, _, err := storage.FindActiveNursing(ctx, ds, t.now())
	return f, err
}

// ActiveSleep returns the running sleep, or nil.
func (t *Tracker) ActiveSleep(ctx context.Context) (*model.SleepEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return nil, err
	}
	s, _, err := storage.FindActiveSleep(ctx, ds, t.now())
	return s, err
}

// StartNursing begins a nursing session. A session left running is stopped
// first, since only one can be active.
func (t *Tracker) StartNursing(ctx context.Context, side model.NursingSide) (model.FeedEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return model.FeedEvent{}, err
	}
	now := t.now()
	prev, err := stopNursingAt(ctx, ds, now)
	switch {
	case err == nil:
		slog.Info("Auto-stopped active nursing session", logfields.EventID(prev.ID))
	case !errors.Is(err, ErrNoActiveNursing):
		return model.FeedEvent{}, err
	}
	if side == "" {
		side = model.SideBoth
	}
	f := model.FeedEvent{
		ID:    timecalc.GenerateID(now),
		Start: now,
		Kind:  model.FeedNursing,
		Side:  side,
	}
	if err := storage.UpdateFeed(ctx, ds, now, f); err != nil {
		return model.FeedEvent{}, err
	}
	slog.Debug("Started nursing", logfields.EventID(f.ID), logfields.Kind(string(f.Kind)))
	return f, nil
}

// StopNursing ends the running nursing session.
func (t *Tracker) StopNursing(ctx context.Context) (model.FeedEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return model.FeedEvent{}, err
	}
	return stopNursingAt(ctx, ds, t.now())
}

func stopNursingAt(ctx context.Context, ds storage.DayStore, at time.Time) (model.FeedEvent, error) {
	active, day, err := storage.FindActiveNursing(ctx, ds, at)
	if err != nil {
		return model.FeedEvent{}, err
	}
	if active == nil {
		return model.FeedEvent{}, ErrNoActiveNursing
	}
	end := latest(active.Start, at)
	active.End = &end
	if err := storage.UpdateFeed(ctx, ds, day, *active); err != nil {
		return model.FeedEvent{}, err
	}
	slog.Debug("Stopped nursing", logfields.EventID(active.ID))
	return *active, nil
}

// ResetNursing discards the running nursing session.
func (t *Tracker) ResetNursing(ctx context.Context) error {
	ds, err := t.days(ctx)
	if err != nil {
		return err
	}
	active, day, err := storage.FindActiveNursing(ctx, ds, t.now())
	if err != nil {
		return err
	}
	if active == nil {
		return ErrNoActiveNursing
	}
	return storage.RemoveFeed(ctx, ds, day, active.ID)
}

// LogBottle records a completed bottle feed at the given time.
func (t *Tracker) LogBottle(ctx context.Context, amountOz float64, source model.BottleSource, at time.Time) (model.FeedEvent, error) {
	if amountOz <= 0 {
		return model.FeedEvent{}, ErrInvalidAmount
	}
	ds, err := t.days(ctx)
	if err != nil {
		return model.FeedEvent{}, err
	}
	if source == "" {
		source = model.SourceBreastMilk
	}
	end := at
	f := model.FeedEvent{
		ID:       timecalc.GenerateID(at),
		Start:    at,
		End:      &end,
		Kind:     model.FeedBottle,
		Source:   source,
		AmountOz: amountOz,
	}
	if err := storage.UpdateFeed(ctx, ds, at, f); err != nil {
		return model.FeedEvent{}, err
	}
	slog.Debug("Logged bottle", logfields.EventID(f.ID), logfields.Kind(string(f.Kind)))
	return f, nil
}

// StartSleep begins a sleep at the given time, or now when at is nil. A
// sleep left running is ended where the new one begins.
func (t *Tracker) StartSleep(ctx context.Context, at *time.Time) (model.SleepEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return model.SleepEvent{}, err
	}
	start := t.now()
	if at != nil {
		start = *at
	}
	prev, err := t.stopSleepAt(ctx, ds, start)
	switch {
	case err == nil:
		slog.Info("Auto-stopped active sleep", logfields.EventID(prev.ID))
	case !errors.Is(err, ErrNoActiveSleep):
		return model.SleepEvent{}, err
	}
	s := model.SleepEvent{ID: timecalc.GenerateID(start), Start: start}
	if err := storage.UpdateSleep(ctx, ds, start, s); err != nil {
		return model.SleepEvent{}, err
	}
	slog.Debug("Started sleep", logfields.EventID(s.ID))
	return s, nil
}

// StopSleep ends the running sleep.
func (t *Tracker) StopSleep(ctx context.Context) (model.SleepEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return model.SleepEvent{}, err
	}
	return t.stopSleepAt(ctx, ds, t.now())
}

func (t *Tracker) stopSleepAt(ctx context.Context, ds storage.DayStore, at time.Time) (model.SleepEvent, error) {
	active, day, err := storage.FindActiveSleep(ctx, ds, t.now())
	if err != nil {
		return model.SleepEvent{}, err
	}
	if active == nil {
		return model.SleepEvent{}, ErrNoActiveSleep
	}
	end := latest(active.Start, at)
	active.End = &end
	if err := storage.UpdateSleep(ctx, ds, day, *active); err != nil {
		return model.SleepEvent{}, err
	}
	slog.Debug("Stopped sleep", logfields.EventID(active.ID))
	return *active, nil
}

// ResumeSleep reopens the most recently ended sleep, for a baby that went
// back down after being logged awake. The sleep may have started on an
// earlier day. If a sleep is already running it is returned unchanged.
func (t *Tracker) ResumeSleep(ctx context.Context) (model.SleepEvent, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return model.SleepEvent{}, err
	}
	now := t.now()
	active, _, err := storage.FindActiveSleep(ctx, ds, now)
	if err != nil {
		return model.SleepEvent{}, err
	}
	if active != nil {
		return *active, nil
	}
	last, day, err := storage.FindLastEndedSleep(ctx, ds, now)
	if err != nil {
		return model.SleepEvent{}, err
	}
	if last == nil {
		return model.SleepEvent{}, ErrNothingToResume
	}
	last.End = nil
	if err := storage.UpdateSleep(ctx, ds, day, *last); err != nil {
		return model.SleepEvent{}, err
	}
	slog.Debug("Resumed sleep", logfields.EventID(last.ID))
	return *last, nil
}

// ResetSleep discards the running sleep.
func (t *Tracker) ResetSleep(ctx context.Context) error {
	ds, err := t.days(ctx)
	if err != nil {
		return err
	}
	active, day, err := storage.FindActiveSleep(ctx, ds, t.now())
	if err != nil {
		return err
	}
	if active == nil {
		return ErrNoActiveSleep
	}
	return storage.RemoveSleep(ctx, ds, day, active.ID)
}

// LogSleep records a completed sleep.
func (t *Tracker) LogSleep(ctx context.Context, start, end time.Time) (model.SleepEvent, error) {
	if !end.After(start) {
		return model.SleepEvent{}, ErrInvalidRange
	}
	ds, err := t.days(ctx)
	if err != nil {
		return model.SleepEvent{}, err
	}
	s := model.SleepEvent{ID: timecalc.GenerateID(start), Start: start, End: &end}
	if err := storage.UpdateSleep(ctx, ds, start, s); err != nil {
		return model.SleepEvent{}, err
	}
	return s, nil
}

// SetWakeTime records when the baby woke up on wake's day, replacing any
// earlier value for that day.
func (t *Tracker) SetWakeTime(ctx context.Context, wake time.Time) error {
	ds, err := t.days(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Setting wake time", logfields.Day(wake.Format(time.DateOnly)))
	return storage.SetWakeTime(ctx, ds, wake, &wake)
}

// ClearWakeTime removes today's manual wake time.
func (t *Tracker) ClearWakeTime(ctx context.Context) error {
	ds, err := t.days(ctx)
	if err != nil {
		return err
	}
	return storage.SetWakeTime(ctx, ds, t.now(), nil)
}

// Day is one calendar day's events, ordered by start.
type Day struct {
	Date     time.Time          `json:"date"`
	WakeTime *time.Time         `json:"wake_time,omitempty"`
	Feeds    []model.FeedEvent  `json:"feeds"`
	Sleeps   []model.SleepEvent `json:"sleeps"`
}

// Today returns the events that started on the current calendar day.
func (t *Tracker) Today(ctx context.Context) (Day, error) {
	return t.DayOf(ctx, t.now())
}

// DayOf returns the events that started on day's calendar day.
func (t *Tracker) DayOf(ctx context.Context, day time.Time) (Day, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return Day{}, err
	}
	return dayOf(ctx, ds, day)
}

func dayOf(ctx context.Context, ds storage.DayStore, day time.Time) (Day, error) {
	df, err := ds.LoadDay(ctx, day)
	if err != nil {
		return Day{}, err
	}
	return dayFrom(timecalc.StartOfDay(day), df), nil
}

// Range returns every day in [from, to], oldest first.
func (t *Tracker) Range(ctx context.Context, from, to time.Time) ([]Day, error) {
	ds, err := t.days(ctx)
	if err != nil {
		return nil, err
	}
	files, err := storage.LoadRange(ctx, ds, timecalc.StartOfDay(from), to)
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(files))
	for i, df := range files {
		days = append(days, dayFrom(timecalc.StartOfDay(from).AddDate(0, 0, i), df))
	}
	return days, nil
}

func dayFrom(date time.Time, df model.DayFile) Day {
	d := Day{Date: date, WakeTime: df.WakeTime}
	for _, f := range df.Feeds {
		if timecalc.SameDay(f.Start, date) {
			d.Feeds = append(d.Feeds, f)
		}
	}
	for _, s := range df.Sleeps {
		if timecalc.SameDay(s.Start, date) {
			d.Sleeps = append(d.Sleeps, s)
		}
	}
	slices.SortStableFunc(d.Feeds, func(a, b model.FeedEvent) int { return a.Start.Compare(b.Start) })
	slices.SortStableFunc(d.Sleeps, func(a, b model.SleepEvent) int { return a.Start.Compare(b.Start) })
	return d
}

// babyToday loads the selected baby together with its current day.
func (t *Tracker) babyToday(ctx context.Context) (model.Baby, Day, error) {
	baby, err := t.Baby(ctx)
	if err != nil {
		return model.Baby{}, Day{}, err
	}
	d, err := dayOf(ctx, t.store.Days(baby.ID), t.now())
	if err != nil {
		return model.Baby{}, Day{}, err
	}
	return baby, d, nil
}

// Snapshot runs the day engine over today's events.
func (t *Tracker) Snapshot(ctx context.Context) (dayengine.DaySnapshot, error) {
	baby, d, err := t.babyToday(ctx)
	if err != nil {
		return dayengine.DaySnapshot{}, err
	}
	return dayengine.Snapshot(baby, d.Feeds, d.Sleeps, d.WakeTime, t.now()), nil
}

// latest keeps an end time from landing before its start.
func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
