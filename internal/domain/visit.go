package domain

import "time"

// VisitEvent is a single recorded page access. Rows are append-only.
type VisitEvent struct {
	ID        string
	Page      string
	Country   string
	VisitedAt time.Time
}

// DailyVisitCount is the aggregate bucket for one calendar day. Day is
// midnight in the reference timezone.
type DailyVisitCount struct {
	Day   time.Time
	Total int64
}

// DailyPoint is one entry of a reporting window.
type DailyPoint struct {
	Day     time.Time
	DayName string
	Count   int64
}

// WeeklyReport is the 7-day series shown on the admin dashboard, oldest first.
type WeeklyReport struct {
	Points []DailyPoint
}

// VisitsPerDay returns the counts in series order.
func (r WeeklyReport) VisitsPerDay() []int64 {
	out := make([]int64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Count
	}
	return out
}

// DayNames returns the weekday labels in series order.
func (r WeeklyReport) DayNames() []string {
	out := make([]string, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.DayName
	}
	return out
}

// Days returns the calendar dates in series order formatted as YYYY-MM-DD.
func (r WeeklyReport) Days() []string {
	out := make([]string, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Day.Format(time.DateOnly)
	}
	return out
}

// PurgeResult counts rows removed by a retention sweep.
type PurgeResult struct {
	Events int64
	Days   int64
}

// Total is the number of rows removed across both tables.
func (r PurgeResult) Total() int64 {
	return r.Events + r.Days
}
