package ranking

import (
	"time"

	"rugfork/internal/apperr"
)

// Window is a trailing time range used by leaderboards and analytics.
type Window string

const (
	WindowHour    Window = "1h"
	WindowDay     Window = "24h"
	WindowWeek    Window = "7d"
	WindowMonth   Window = "30d"
	WindowAllTime Window = "all_time"
)

var windowAliases = map[string]Window{
	"1h":       WindowHour,
	"24h":      WindowDay,
	"daily":    WindowDay,
	"7d":       WindowWeek,
	"weekly":   WindowWeek,
	"30d":      WindowMonth,
	"monthly":  WindowMonth,
	"all_time": WindowAllTime,
	"all":      WindowAllTime,
}

// ParseWindow accepts a window name or one of its aliases. Empty means fallback.
func ParseWindow(s string, fallback Window) (Window, error) {
	if s == "" {
		return fallback, nil
	}
	w, ok := windowAliases[s]
	if !ok {
		return "", apperr.InvalidInputf("unknown period %q", s)
	}
	return w, nil
}

// Duration is zero for all_time.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowHour:
		return time.Hour
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Since returns the window's lower bound, or nil when unbounded.
func (w Window) Since(now time.Time) *time.Time {
	d := w.Duration()
	if d == 0 {
		return nil
	}
	t := now.Add(-d)
	return &t
}
