// Package report aggregates time records into payroll-week tables and
// renders them as plain text, CSV, and HTML. All renderers consume the same
// aggregated data so their totals always agree.
package report

import (
	"sort"
	"time"

	"github.com/w1ngnutt/spf-time/internal/timeclock/payroll"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

// UnknownName is rendered for record owners with no roster entry. Such
// records still participate in all totals.
const UnknownName = "Unknown"

// NameIndex builds a total id-to-name lookup over the roster, defaulting to
// UnknownName for ids with no entry.
func NameIndex(employees []store.Employee) func(int64) string {
	byID := make(map[int64]string, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp.Name
	}
	return func(id int64) string {
		if name, ok := byID[id]; ok {
			return name
		}
		return UnknownName
	}
}

// EmployeeRow is one employee's hours across a week's seven-day axis.
type EmployeeRow struct {
	EmployeeID int64
	Name       string
	Hours      [7]float64
	Total      float64
}

// WeekTable is the per-week hour matrix: one row per employee with at least
// one closed record in the week, plus per-day and grand totals.
type WeekTable struct {
	Week      payroll.Week
	Days      []time.Time
	Rows      []EmployeeRow
	DayTotals [7]float64
	Total     float64
}

// WeekSet is the aggregate over a full report range, ordered by week start.
// It is built once per report and never mutated afterwards.
type WeekSet struct {
	Start time.Time
	End   time.Time
	Weeks []WeekTable
}

// Aggregate groups closed records by employee, payroll week, and calendar
// date. Open sessions are excluded from all aggregate totals. Every week in
// range appears, including weeks with no records; rows are ordered
// alphabetically by display name.
func Aggregate(records []store.TimeRecord, employees []store.Employee, rangeStart, rangeEnd time.Time, startDay int) *WeekSet {
	lookup := NameIndex(employees)

	set := &WeekSet{
		Start: payroll.Date(rangeStart),
		End:   payroll.Date(rangeEnd),
	}

	for _, week := range payroll.Weeks(rangeStart, rangeEnd, startDay) {
		table := WeekTable{
			Week: week,
			Days: week.Days(),
		}

		rowByEmployee := make(map[int64]*EmployeeRow)
		for _, record := range records {
			if record.Open() {
				continue
			}
			if !week.Contains(record.ClockIn) {
				continue
			}

			row, ok := rowByEmployee[record.EmployeeID]
			if !ok {
				row = &EmployeeRow{
					EmployeeID: record.EmployeeID,
					Name:       lookup(record.EmployeeID),
				}
				rowByEmployee[record.EmployeeID] = row
			}

			dayIndex := dayIndexOf(table.Days, record.ClockIn)
			if dayIndex < 0 {
				continue
			}
			hours := record.ClockOut.Sub(record.ClockIn).Hours()
			row.Hours[dayIndex] += hours
		}

		for _, row := range rowByEmployee {
			for i, hours := range row.Hours {
				row.Total += hours
				table.DayTotals[i] += hours
			}
			table.Total += row.Total
			table.Rows = append(table.Rows, *row)
		}

		sort.Slice(table.Rows, func(i, j int) bool {
			if table.Rows[i].Name != table.Rows[j].Name {
				return table.Rows[i].Name < table.Rows[j].Name
			}
			return table.Rows[i].EmployeeID < table.Rows[j].EmployeeID
		})

		set.Weeks = append(set.Weeks, table)
	}

	return set
}

// dayIndexOf locates t's calendar date on the week's day axis. Comparing
// dates, not durations, keeps the column right across DST transitions,
// where midnight-to-midnight spans are not multiples of 24 hours.
func dayIndexOf(days []time.Time, t time.Time) int {
	y, m, d := t.Date()
	for i, day := range days {
		dy, dm, dd := day.Date()
		if dy == y && dm == m && dd == d {
			return i
		}
	}
	return -1
}

// EmployeeTotal is a flat per-employee hour sum over a record set.
type EmployeeTotal struct {
	Name  string
	Hours float64
}

// EmployeeTotals sums closed-record hours per employee name, ignoring
// week/day structure. Open sessions are excluded. Results are ordered
// alphabetically by name.
func EmployeeTotals(records []store.TimeRecord, employees []store.Employee) []EmployeeTotal {
	lookup := NameIndex(employees)

	byName := make(map[string]float64)
	for _, record := range records {
		if record.Open() {
			continue
		}
		name := lookup(record.EmployeeID)
		byName[name] += record.ClockOut.Sub(record.ClockIn).Hours()
	}

	totals := make([]EmployeeTotal, 0, len(byName))
	for name, hours := range byName {
		totals = append(totals, EmployeeTotal{Name: name, Hours: hours})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Name < totals[j].Name })
	return totals
}
