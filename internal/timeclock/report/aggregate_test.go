package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w1ngnutt/spf-time/internal/timeclock/report"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

func ts(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func closed(id int64, employeeID int64, in, out time.Time) store.TimeRecord {
	return store.TimeRecord{ID: id, EmployeeID: employeeID, ClockIn: in, ClockOut: &out}
}

func roster() []store.Employee {
	return []store.Employee{
		{ID: 1, Name: "Ann", IsActive: true},
		{ID: 2, Name: "Bob", IsActive: true},
	}
}

func TestAggregate_WeekMatrix(t *testing.T) {
	// 2024-03-04 is a Monday. Two employees across one week.
	records := []store.TimeRecord{
		closed(1, 1, ts(4, 9), ts(4, 17)),  // Ann Mon 8h
		closed(2, 1, ts(6, 9), ts(6, 13)),  // Ann Wed 4h
		closed(3, 2, ts(4, 10), ts(4, 16)), // Bob Mon 6h
	}

	set := report.Aggregate(records, roster(), ts(4, 0), ts(10, 0), 0)

	require.Len(t, set.Weeks, 1)
	week := set.Weeks[0]
	assert.Equal(t, ts(4, 0), week.Week.Start)
	require.Len(t, week.Days, 7)

	require.Len(t, week.Rows, 2)
	ann, bob := week.Rows[0], week.Rows[1]
	assert.Equal(t, "Ann", ann.Name)
	assert.Equal(t, "Bob", bob.Name)

	assert.InDelta(t, 8.0, ann.Hours[0], 1e-9)
	assert.InDelta(t, 4.0, ann.Hours[2], 1e-9)
	assert.InDelta(t, 12.0, ann.Total, 1e-9)
	assert.InDelta(t, 6.0, bob.Total, 1e-9)

	assert.InDelta(t, 14.0, week.DayTotals[0], 1e-9)
	assert.InDelta(t, 4.0, week.DayTotals[2], 1e-9)
	assert.InDelta(t, 18.0, week.Total, 1e-9)
}

func TestAggregate_OpenSessionsExcluded(t *testing.T) {
	records := []store.TimeRecord{
		closed(1, 1, ts(4, 9), ts(4, 17)),
		{ID: 2, EmployeeID: 1, ClockIn: ts(5, 9)}, // still clocked in
	}

	set := report.Aggregate(records, roster(), ts(4, 0), ts(10, 0), 0)

	require.Len(t, set.Weeks, 1)
	require.Len(t, set.Weeks[0].Rows, 1)
	assert.InDelta(t, 8.0, set.Weeks[0].Total, 1e-9)
	assert.Zero(t, set.Weeks[0].Rows[0].Hours[1])
}

func TestAggregate_EmptyWeeksKept(t *testing.T) {
	// Three-week range with records only in the middle week.
	records := []store.TimeRecord{
		closed(1, 1, ts(12, 9), ts(12, 17)),
	}

	set := report.Aggregate(records, roster(), ts(4, 0), ts(24, 0), 0)

	require.Len(t, set.Weeks, 3)
	assert.Empty(t, set.Weeks[0].Rows)
	require.Len(t, set.Weeks[1].Rows, 1)
	assert.Empty(t, set.Weeks[2].Rows)
	assert.Zero(t, set.Weeks[0].Total)
}

func TestAggregate_UnknownEmployee(t *testing.T) {
	records := []store.TimeRecord{
		closed(1, 99, ts(4, 9), ts(4, 13)),
	}

	set := report.Aggregate(records, roster(), ts(4, 0), ts(10, 0), 0)

	require.Len(t, set.Weeks[0].Rows, 1)
	assert.Equal(t, report.UnknownName, set.Weeks[0].Rows[0].Name)
	assert.InDelta(t, 4.0, set.Weeks[0].Total, 1e-9)
}

func TestAggregate_DaylightSavingWeek(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 springs forward; a Friday-start week puts the short day
	// mid-week. A Monday 03-11 record must land in Monday's column.
	in := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	out := in.Add(4 * time.Hour)
	records := []store.TimeRecord{
		{ID: 1, EmployeeID: 1, ClockIn: in, ClockOut: &out},
	}

	start := time.Date(2024, 3, 8, 0, 0, 0, 0, loc)
	end := time.Date(2024, 3, 14, 0, 0, 0, 0, loc)

	set := report.Aggregate(records, roster(), start, end, 4)

	require.Len(t, set.Weeks, 1)
	week := set.Weeks[0]
	require.Len(t, week.Rows, 1)

	// Friday=0, Saturday=1, Sunday=2, Monday=3.
	assert.Zero(t, week.Rows[0].Hours[2])
	assert.InDelta(t, 4.0, week.Rows[0].Hours[3], 1e-9)
	assert.Zero(t, week.DayTotals[2])
	assert.InDelta(t, 4.0, week.DayTotals[3], 1e-9)
}

func TestAggregate_RowOrderStable(t *testing.T) {
	records := []store.TimeRecord{
		closed(1, 2, ts(4, 9), ts(4, 10)),
		closed(2, 1, ts(4, 9), ts(4, 10)),
	}

	for i := 0; i < 5; i++ {
		set := report.Aggregate(records, roster(), ts(4, 0), ts(10, 0), 0)
		require.Len(t, set.Weeks[0].Rows, 2)
		assert.Equal(t, "Ann", set.Weeks[0].Rows[0].Name)
		assert.Equal(t, "Bob", set.Weeks[0].Rows[1].Name)
	}
}

func TestEmployeeTotals(t *testing.T) {
	records := []store.TimeRecord{
		closed(1, 2, ts(4, 9), ts(4, 17)),
		closed(2, 1, ts(4, 9), ts(4, 12)),
		closed(3, 1, ts(5, 9), ts(5, 12)),
		{ID: 4, EmployeeID: 1, ClockIn: ts(6, 9)}, // open, excluded
	}

	totals := report.EmployeeTotals(records, roster())

	require.Len(t, totals, 2)
	assert.Equal(t, "Ann", totals[0].Name)
	assert.InDelta(t, 6.0, totals[0].Hours, 1e-9)
	assert.Equal(t, "Bob", totals[1].Name)
	assert.InDelta(t, 8.0, totals[1].Hours, 1e-9)
}
