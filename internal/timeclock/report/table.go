package report

import (
	"fmt"
	"strings"

	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

const (
	stillClockedIn = "Still Clocked In"
	ongoing        = "Ongoing"
	noRecords      = "No time records found for the specified period."
)

var tableHeaders = []string{"Employee", "Date", "Clock In", "Clock Out", "Duration (Hours)"}

// Table renders records as a fixed-width bordered console table followed by
// a per-employee summary and grand total. Open sessions show "Still Clocked
// In" / "Ongoing" and are excluded from the totals.
func Table(records []store.TimeRecord, employees []store.Employee) string {
	if len(records) == 0 {
		return noRecords
	}

	lookup := NameIndex(employees)

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, recordCells(record, lookup))
	}

	widths := make([]int, len(tableHeaders))
	for i, header := range tableHeaders {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	separator := borderLine(widths)

	var b strings.Builder
	b.WriteString(separator)
	b.WriteByte('\n')
	b.WriteString(contentLine(tableHeaders, widths))
	b.WriteByte('\n')
	b.WriteString(separator)
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(contentLine(row, widths))
		b.WriteByte('\n')
	}
	b.WriteString(separator)
	b.WriteByte('\n')

	b.WriteByte('\n')
	b.WriteString("Summary:\n")
	b.WriteString(strings.Repeat("-", 50))
	b.WriteByte('\n')

	grandTotal := 0.0
	for _, total := range EmployeeTotals(records, employees) {
		fmt.Fprintf(&b, "%s: %.2f hours\n", total.Name, total.Hours)
		grandTotal += total.Hours
	}
	fmt.Fprintf(&b, "Total: %.2f hours", grandTotal)

	return b.String()
}

// recordCells formats one record into the shared five-column shape used by
// the table and CSV renderers.
func recordCells(record store.TimeRecord, lookup func(int64) string) []string {
	clockOut := stillClockedIn
	duration := ongoing
	if record.ClockOut != nil {
		clockOut = record.ClockOut.Format("15:04:05")
		duration = fmt.Sprintf("%.2f", record.ClockOut.Sub(record.ClockIn).Hours())
	}
	return []string{
		lookup(record.EmployeeID),
		record.ClockIn.Format("2006-01-02"),
		record.ClockIn.Format("15:04:05"),
		clockOut,
		duration,
	}
}

func borderLine(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

func contentLine(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprintf(" %-*s", widths[i]-1, cell)
	}
	return "|" + strings.Join(parts, "|") + "|"
}
