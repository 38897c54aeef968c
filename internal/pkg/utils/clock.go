package utils

import (
	"fmt"
	"log/slog"
	"time"
)

// LoadLocationOrUTC resolves an IANA zone name, falling back to UTC when it is unknown.
func LoadLocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("Unknown timezone, using UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

// ParseClock parses an "HH:MM" wall-clock value.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// AtClock returns the instant at hour:minute on the calendar day of day, in loc.
func AtClock(day time.Time, hour, minute int, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// DateOnly returns the calendar date of t as observed in loc, encoded as UTC midnight.
// This is the form Postgres DATE columns scan into.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
