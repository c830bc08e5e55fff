package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/babytime/internal/timecalc"
)

// parseWhen resolves an --at value relative to now. It accepts "" (now),
// a clock time "HH:MM" or a duration ago such as "20m" or "1h15m". A clock
// time later than now means yesterday, so a 23:30 logged at 01:00 lands on
// the right night.
func parseWhen(now time.Time, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if strings.Contains(s, ":") {
		t, err := timecalc.ParseClock(now, s)
		if err != nil {
			return time.Time{}, err
		}
		if t.After(now) {
			t = t.AddDate(0, 0, -1)
		}
		return t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid time %q, want HH:MM or a duration ago like 20m", s)
	}
	return now.Add(-d), nil
}
