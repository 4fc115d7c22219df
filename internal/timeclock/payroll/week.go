// Package payroll maps calendar dates onto configured payroll weeks.
//
// A payroll week starts on a configured weekday (0=Monday..6=Sunday) and
// spans exactly seven days. All functions are pure; dates are normalized to
// midnight in their own location.
package payroll

import "time"

// Week is one payroll week. End is always Start plus six days.
type Week struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls inside the week.
func (w Week) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the week's seven-day date axis.
func (w Week) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// Date truncates t to midnight in its own location.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Weekday maps Go's Sunday-based weekday onto the 0=Monday..6=Sunday
// numbering used by the payroll configuration.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the most recent date on or before d whose weekday equals
// startDay. The modulo keeps the wraparound exact at week boundaries.
func WeekStart(d time.Time, startDay int) time.Time {
	d = Date(d)
	back := ((Weekday(d) - startDay) % 7 + 7) % 7
	return d.AddDate(0, 0, -back)
}

// WeekOf returns the payroll week containing d.
func WeekOf(d time.Time, startDay int) Week {
	start := WeekStart(d, startDay)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// Weeks enumerates week starts from the week containing rangeStart, stepping
// seven days, while the week start is on or before rangeEnd.
func Weeks(rangeStart, rangeEnd time.Time, startDay int) []Week {
	rangeEnd = Date(rangeEnd)

	var weeks []Week
	for start := WeekStart(rangeStart, startDay); !start.After(rangeEnd); start = start.AddDate(0, 0, 7) {
		weeks = append(weeks, Week{Start: start, End: start.AddDate(0, 0, 6)})
	}
	return weeks
}

// PreviousCompleteWeeks returns the date range covering the n complete
// payroll weeks immediately before the week containing today. The current,
// in-progress week is never included.
func PreviousCompleteWeeks(n int, today time.Time, startDay int) (start, end time.Time) {
	currentWeekStart := WeekStart(today, startDay)
	end = currentWeekStart.AddDate(0, 0, -1)
	start = WeekStart(end, startDay).AddDate(0, 0, -7*(n-1))
	return start, end
}
