package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OpenHours is a daily opening window given as "HH:MM" clock times.
// A close time earlier than the open time means the window spans midnight.
type OpenHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// IsOpenAt reports whether the window contains the clock time of t.
// Invalid or missing clock strings report closed.
func (h *OpenHours) IsOpenAt(t time.Time) bool {
	if h == nil {
		return false
	}

	open, err := ParseClock(h.Open)
	if err != nil {
		return false
	}
	closeAt, err := ParseClock(h.Close)
	if err != nil {
		return false
	}

	now := t.Hour()*60 + t.Minute()

	if closeAt < open {
		// Window spans midnight, e.g. 22:00-02:00
		return now >= open || now <= closeAt
	}
	return now >= open && now <= closeAt
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", clock)
	}

	return hour*60 + minute, nil
}
