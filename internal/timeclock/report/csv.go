package report

import (
	"encoding/csv"
	"strings"

	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

// CSV renders one row per raw record with the fixed header
// "Employee, Date, Clock In, Clock Out, Duration (Hours)". Open sessions
// keep their literal placeholders and are excluded from any downstream
// total arithmetic.
func CSV(records []store.TimeRecord, employees []store.Employee) (string, error) {
	lookup := NameIndex(employees)

	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(tableHeaders); err != nil {
		return "", err
	}
	for _, record := range records {
		if err := w.Write(recordCells(record, lookup)); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
