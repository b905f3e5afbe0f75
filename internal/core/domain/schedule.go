package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

// ParseClock parses "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustClock is ParseClock for literals.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// On returns the instant this time of day falls on date (interpreted in UTC).
func (c ClockTime) On(date time.Time) time.Time {
	return Day(date).Add(time.Duration(c) * time.Minute)
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "YYYY-MM-DD" into a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a calendar day as "YYYY-MM-DD".
func FormatDate(t time.Time) string { return t.UTC().Format(dateLayout) }

// Interval is the half-open time range [Start, End).
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// Overlaps reports whether a and b share any instant. Touching endpoints
// (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// ValidateTimeRange fails with ValidationError unless start < end.
func ValidateTimeRange(start, end ClockTime) Result {
	if start >= end {
		return Fail[Unit](ValidationError(fmt.Sprintf("start time %s must be before end time %s", start, end)))
	}
	return Done()
}
