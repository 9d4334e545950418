// ABOUTME: Calendar periods for filtering posts by creation time
// ABOUTME: Resolves names like today or week into a half-open [start, end) window

package timeutil

import (
	"fmt"
	"time"
)

// Periods lists the accepted period names.
var Periods = []string{"today", "yesterday", "week", "month"}

// Window is a half-open time range. A zero End means open-ended.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || t.Before(w.End)
}

// midnight returns the start of t's day in t's location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PeriodWindow resolves a period name relative to now.
// Weeks start on Sunday.
func PeriodWindow(period string, now time.Time) (Window, error) {
	today := midnight(now)
	switch period {
	case "today":
		return Window{Start: today}, nil
	case "yesterday":
		return Window{Start: today.AddDate(0, 0, -1), End: today}, nil
	case "week":
		return Window{Start: today.AddDate(0, 0, -int(today.Weekday()))}, nil
	case "month":
		return Window{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())}, nil
	default:
		return Window{}, fmt.Errorf("unknown period %q (want one of %v)", period, Periods)
	}
}
