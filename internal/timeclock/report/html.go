package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/w1ngnutt/spf-time/internal/timeclock/payroll"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

const noRecordsHTML = "<p>No time records found for the specified period.</p>"

// WeeklyTables renders one HTML matrix table per payroll week in the
// aggregate: employee rows against the seven-day axis, a Daily Totals row,
// and a week grand total. Zero-hour cells render as a dash.
func WeeklyTables(set *WeekSet) string {
	empty := true
	for _, week := range set.Weeks {
		if len(week.Rows) > 0 {
			empty = false
			break
		}
	}
	if empty {
		return noRecordsHTML
	}

	tables := make([]string, 0, len(set.Weeks))
	for _, week := range set.Weeks {
		tables = append(tables, weeklyTable(week))
	}
	return strings.Join(tables, "\n")
}

func weeklyTable(week WeekTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h4>Week of %s - %s</h4>\n",
		week.Week.Start.Format("January 02, 2006"),
		week.Week.End.Format("January 02, 2006"))
	b.WriteString(`<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse; font-family: Arial, sans-serif; margin-bottom: 20px;">` + "\n")

	// Header row
	b.WriteString(`  <tr style="background-color: #f0f0f0; font-weight: bold;">` + "\n")
	b.WriteString("    <td>Employee</td>\n")
	for _, day := range week.Days {
		fmt.Fprintf(&b, `    <td style="text-align: center;">%s<br>%s</td>`+"\n",
			day.Format("Mon"), day.Format("01/02"))
	}
	b.WriteString(`    <td style="text-align: center; background-color: #e6f3ff;">Weekly Total</td>` + "\n")
	b.WriteString("  </tr>\n")

	// Employee rows
	for _, row := range week.Rows {
		b.WriteString("  <tr>\n")
		fmt.Fprintf(&b, `    <td style="font-weight: bold;">%s</td>`+"\n", row.Name)
		for _, hours := range row.Hours {
			if hours > 0 {
				fmt.Fprintf(&b, `    <td style="text-align: center;">%.1f</td>`+"\n", hours)
			} else {
				b.WriteString(`    <td style="text-align: center; color: #ccc;">-</td>` + "\n")
			}
		}
		fmt.Fprintf(&b, `    <td style="text-align: center; font-weight: bold; background-color: #e6f3ff;">%.1f</td>`+"\n", row.Total)
		b.WriteString("  </tr>\n")
	}

	// Daily totals row
	b.WriteString(`  <tr style="background-color: #f0f0f0; font-weight: bold;">` + "\n")
	b.WriteString("    <td>Daily Totals</td>\n")
	for _, total := range week.DayTotals {
		fmt.Fprintf(&b, `    <td style="text-align: center;">%.1f</td>`+"\n", total)
	}
	fmt.Fprintf(&b, `    <td style="text-align: center; background-color: #d6e9ff;">%.1f</td>`+"\n", week.Total)
	b.WriteString("  </tr>\n")
	b.WriteString("</table>\n")

	return b.String()
}

// EmployeeDetailTables renders one detail table per (employee, week) pair:
// each row is a single record, terminated by a week-total row. Groups are
// ordered by employee name, then week.
func EmployeeDetailTables(records []store.TimeRecord, employees []store.Employee, startDay int) string {
	if len(records) == 0 {
		return noRecordsHTML
	}

	lookup := NameIndex(employees)

	type weekKey struct {
		name  string
		start time.Time
	}
	groups := make(map[weekKey][]store.TimeRecord)
	for _, record := range records {
		key := weekKey{
			name:  lookup(record.EmployeeID),
			start: payroll.WeekStart(record.ClockIn, startDay),
		}
		groups[key] = append(groups[key], record)
	}

	keys := make([]weekKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].start.Before(keys[j].start)
	})

	var parts []string
	lastName := ""
	for _, key := range keys {
		if key.name != lastName {
			parts = append(parts, fmt.Sprintf("<h3>%s</h3>", key.name))
			lastName = key.name
		}
		parts = append(parts, detailTable(key.start, groups[key]))
	}
	return strings.Join(parts, "\n")
}

func detailTable(weekStart time.Time, records []store.TimeRecord) string {
	weekEnd := weekStart.AddDate(0, 0, 6)

	sort.Slice(records, func(i, j int) bool {
		return records[i].ClockIn.Before(records[j].ClockIn)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "<h4>Week: %s to %s</h4>\n",
		weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
	b.WriteString("<table border='1' cellpadding='5' cellspacing='0'>\n")
	b.WriteString("<tr><th>Date</th><th>Clock In</th><th>Clock Out</th><th>Duration (Hours)</th></tr>\n")

	weekTotal := 0.0
	for _, record := range records {
		clockOut := stillClockedIn
		duration := ongoing
		if record.ClockOut != nil {
			clockOut = record.ClockOut.Format("15:04:05")
			hours := record.ClockOut.Sub(record.ClockIn).Hours()
			duration = fmt.Sprintf("%.2f", hours)
			weekTotal += hours
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			record.ClockIn.Format("2006-01-02"),
			record.ClockIn.Format("15:04:05"),
			clockOut, duration)
	}

	fmt.Fprintf(&b, "<tr><td colspan='3'><strong>Week Total</strong></td><td><strong>%.2f</strong></td></tr>\n", weekTotal)
	b.WriteString("</table><br>")

	return b.String()
}
