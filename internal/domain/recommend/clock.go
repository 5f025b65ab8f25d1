package recommend

import "time"

// dailyEpoch anchors the day ordinal. The same date across restarts and
// deployments keeps the daily pick identical for every user.
var dailyEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock supplies the day ordinal used by the daily pick. Injectable so
// tests can pin a day.
type Clock interface {
	// Today returns the number of whole days since the daily epoch.
	Today() int
}

// SystemClock implements Clock against the wall clock in UTC.
type SystemClock struct{}

// Today returns the current day ordinal.
func (SystemClock) Today() int {
	return DayOrdinal(time.Now())
}

// DayOrdinal converts a point in time to its day ordinal.
func DayOrdinal(t time.Time) int {
	return int(t.UTC().Sub(dailyEpoch) / (24 * time.Hour))
}

// FixedClock is a Clock pinned to one day, for deterministic tests.
type FixedClock int

// Today returns the pinned day ordinal.
func (c FixedClock) Today() int { return int(c) }
