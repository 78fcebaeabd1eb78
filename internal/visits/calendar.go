package visits

import (
	"strings"
	"time"

	"campusconnect/internal/domain"
)

// Calendar truncates instants to calendar days in a fixed reference timezone.
// Every bucket key and report window is computed through it.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Day returns midnight of t's calendar day in the reference timezone.
func (c Calendar) Day(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// Key formats the day of t as YYYY-MM-DD.
func (c Calendar) Key(t time.Time) string {
	return c.Day(t).Format(time.DateOnly)
}

// AddDays moves n calendar days from the day of t. DST shifts do not move
// the result off midnight.
func (c Calendar) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, c.loc)
}

// Parse reads a YYYY-MM-DD date in the reference timezone.
func (c Calendar) Parse(s string) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), c.loc)
	if err != nil {
		return time.Time{}, domain.InvalidInput("day %q is not YYYY-MM-DD", s)
	}
	return day, nil
}
