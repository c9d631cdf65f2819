// Package timeboundary computes the twice-daily cooldown windows.
//
// A window runs from one boundary (BoundaryHour:00 wall-clock time in a fixed
// zone) to the next one. All calculations work from the instant, never from
// the host's local zone, so a server in UTC and a phone in Lisbon agree on
// where a window starts.
package timeboundary

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone the app's groups live in
const DefaultTimezone = "Europe/Prague"

// DefaultBoundaryHour is the wall-clock hour a new window starts at
const DefaultBoundaryHour = 12

// Config holds configuration for the boundary calculator
type Config struct {
	// Timezone is an IANA zone name, defaults to DefaultTimezone
	Timezone string

	// BoundaryHour is the wall-clock hour of the boundary, defaults to 12
	BoundaryHour int
}

// Calculator computes cooldown boundaries in one zone
type Calculator struct {
	loc  *time.Location
	hour int
}

// New creates a Calculator for the configured zone
func New(cfg *Config) (*Calculator, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}

	hour := cfg.BoundaryHour
	if hour == 0 {
		hour = DefaultBoundaryHour
	}
	if hour < 0 || hour > 23 {
		return nil, errors.New("boundary hour must be between 0 and 23")
	}

	return &Calculator{loc: loc, hour: hour}, nil
}

// Location returns the zone boundaries are computed in
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// OffsetForInstant returns the zone's UTC offset at t. The offset comes from
// the zone's wall-clock reading of t, so it follows DST for that instant.
func (c *Calculator) OffsetForInstant(t time.Time) time.Duration {
	wall := t.In(c.loc)
	asUTC := time.Date(wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), time.UTC)
	return asUTC.Sub(t)
}

// LatestBoundary returns the most recent boundary at or before t
func (c *Calculator) LatestBoundary(t time.Time) time.Time {
	wall := c.wallClock(t)
	candidate := time.Date(wall.Year(), wall.Month(), wall.Day(), c.hour, 0, 0, 0, time.UTC)
	if candidate.After(wall) {
		candidate = candidate.AddDate(0, 0, -1)
	}
	return c.toInstant(candidate)
}

// NextBoundary returns the first boundary strictly after t
func (c *Calculator) NextBoundary(t time.Time) time.Time {
	wall := c.wallClock(t)
	candidate := time.Date(wall.Year(), wall.Month(), wall.Day(), c.hour, 0, 0, 0, time.UTC)
	if !candidate.After(wall) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return c.toInstant(candidate)
}

// Window returns the boundaries enclosing t
func (c *Calculator) Window(t time.Time) (start, end time.Time) {
	return c.LatestBoundary(t), c.NextBoundary(t)
}

// InWindow reports whether ts falls in the same window as now
func (c *Calculator) InWindow(ts, now time.Time) bool {
	start, end := c.Window(now)
	return !ts.Before(start) && ts.Before(end)
}

// IsBlocked reports whether an action at lastActionAt still blocks a new
// action at now. A zero lastActionAt never blocks.
func (c *Calculator) IsBlocked(lastActionAt, now time.Time) bool {
	if lastActionAt.IsZero() {
		return false
	}
	return c.InWindow(lastActionAt, now)
}

// UntilNext returns how long until the window containing now closes
func (c *Calculator) UntilNext(now time.Time) time.Duration {
	return c.NextBoundary(now).Sub(now)
}

// wallClock shifts t by the zone offset and returns the wall-clock reading
// expressed as a UTC time
func (c *Calculator) wallClock(t time.Time) time.Time {
	return t.Add(c.OffsetForInstant(t)).UTC()
}

// toInstant turns a wall-clock reading (as UTC) back into an instant. The
// offset is recomputed for the rough target itself rather than reused from
// the caller, since a DST change may sit between the two.
func (c *Calculator) toInstant(wall time.Time) time.Time {
	rough := wall.Add(-c.OffsetForInstant(wall))
	return wall.Add(-c.OffsetForInstant(rough))
}
