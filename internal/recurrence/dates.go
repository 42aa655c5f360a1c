package recurrence

import (
	"fmt"
	"time"
)

// ISOLayout is the wire and storage layout for calendar dates.
const ISOLayout = "2006-01-02"

// Date returns the civil date y-m-d as midnight UTC. All recurrence dates are
// carried this way so that comparisons never depend on a zone offset.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day of t, keeping the civil date as observed in
// t's own location.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DateOf returns the civil date of the instant t as observed in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Truncate(t.In(loc))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), DaysIn(t.Year(), t.Month()))
}

// ClampDay returns the given day of the month, clamped to the month's last day.
func ClampDay(year int, month time.Month, day int) time.Time {
	if n := DaysIn(year, month); day > n {
		day = n
	}
	if day < 1 {
		day = 1
	}
	return Date(year, month, day)
}

// MonthOffset returns the number of calendar months from from's month to to's month.
func MonthOffset(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// WeekOffset returns the number of Sunday-based calendar weeks between the
// week containing from and the week containing to.
func WeekOffset(from, to time.Time) int {
	a := weekStart(Truncate(from))
	b := weekStart(Truncate(to))
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return -((-days + 6) / 7)
	}
	return days / 7
}

func weekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// MonthKey formats t's month as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// FormatDate formats a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseDate parses YYYY-MM-DD into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// LoadLocation resolves an IANA zone name, falling back when the name is empty
// or unknown.
func LoadLocation(name string, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
