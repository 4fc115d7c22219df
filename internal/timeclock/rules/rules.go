// Package rules enforces session eligibility and computes worked hours.
//
// Rule checks return an (allowed, reason) pair rather than an error; errors
// are reserved for store faults. All checks read one store snapshot per
// call and hold no state between calls.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/w1ngnutt/spf-time/internal/timeclock/payroll"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
	"github.com/w1ngnutt/spf-time/pkg/config"
)

const maxShiftHours = 24

// Engine validates clock-in/out eligibility and computes daily and weekly
// hours for one employee at a time.
type Engine struct {
	store         store.RecordStore
	tracking      config.TimeTrackingConfig
	notifications config.NotificationsConfig
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a rules engine bound to a record store and configuration.
func New(s store.RecordStore, tracking config.TimeTrackingConfig, notifications config.NotificationsConfig, opts ...Option) *Engine {
	e := &Engine{
		store:         s,
		tracking:      tracking,
		notifications: notifications,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CanClockIn reports whether the employee may start a session. Denied when a
// session is already open, or when less than the configured minimum break
// has elapsed since the most recent clock-out.
func (e *Engine) CanClockIn(ctx context.Context, employeeID int64) (bool, string, error) {
	clockedIn, err := e.store.IsClockedIn(ctx, employeeID)
	if err != nil {
		return false, "", err
	}
	if clockedIn {
		return false, "Employee is already clocked in", nil
	}

	lastOut, err := e.lastClockOut(ctx, employeeID)
	if err != nil {
		return false, "", err
	}
	if lastOut != nil {
		minBreak := time.Duration(e.tracking.MinBreakMinutes) * time.Minute
		if e.now().Sub(*lastOut) < minBreak {
			return false, fmt.Sprintf("Must wait %d minutes between clock in/out", e.tracking.MinBreakMinutes), nil
		}
	}

	return true, "OK", nil
}

// CanClockOut reports whether the employee may end their session. Denied
// when no session is open, or when the session is shorter than the
// configured minimum break (the same setting doubles as a minimum shift
// length).
func (e *Engine) CanClockOut(ctx context.Context, employeeID int64) (bool, string, error) {
	clockedIn, err := e.store.IsClockedIn(ctx, employeeID)
	if err != nil {
		return false, "", err
	}
	if !clockedIn {
		return false, "Employee is not clocked in", nil
	}

	session, err := e.store.CurrentSession(ctx, employeeID)
	if err != nil {
		return false, "", err
	}
	if session != nil {
		minBreak := time.Duration(e.tracking.MinBreakMinutes) * time.Minute
		if e.now().Sub(session.ClockIn) < minBreak {
			return false, fmt.Sprintf("Must work at least %d minutes before clocking out", e.tracking.MinBreakMinutes), nil
		}
	}

	return true, "OK", nil
}

// ValidateTimeEntry checks a manually entered clock-in/out pair. Both stamps
// may sit slightly in the future, within the configured grace period, to
// tolerate clock skew.
func (e *Engine) ValidateTimeEntry(clockIn time.Time, clockOut *time.Time) (bool, string) {
	if clockOut != nil && !clockOut.After(clockIn) {
		return false, "Clock out time must be after clock in time"
	}

	limit := e.now().Add(time.Duration(e.tracking.GracePeriodMinutes) * time.Minute)

	if clockIn.After(limit) {
		return false, "Clock in time cannot be in the future"
	}
	if clockOut != nil && clockOut.After(limit) {
		return false, "Clock out time cannot be in the future"
	}

	if clockOut != nil && clockOut.Sub(clockIn) > maxShiftHours*time.Hour {
		return false, fmt.Sprintf("Shift cannot exceed %d hours", maxShiftHours)
	}

	return true, "OK"
}

// DailyHours sums worked hours for the employee on the given calendar date.
// Open sessions contribute up to "now" or end-of-day, whichever is earlier.
// Clock-ins are never clipped to start-of-day, so a session spilling over
// midnight is counted in full on its clock-in date.
func (e *Engine) DailyHours(ctx context.Context, employeeID int64, date time.Time) (float64, error) {
	day := payroll.Date(date)
	startOfDay := day
	// Next-day midnight, not +24h: DST days are 23 or 25 wall-clock hours.
	endOfDay := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

	records, err := e.store.TimeRecords(ctx, store.RecordFilter{
		EmployeeID: &employeeID,
		StartDate:  &day,
		EndDate:    &day,
	})
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, record := range records {
		if record.ClockIn.Before(startOfDay) || record.ClockIn.After(endOfDay) {
			continue
		}
		end := e.now()
		if record.ClockOut != nil {
			end = *record.ClockOut
		}
		if end.After(endOfDay) {
			end = endOfDay
		}
		total += end.Sub(record.ClockIn).Hours()
	}
	return total, nil
}

// WeeklyHours sums DailyHours over the seven days starting at weekStart.
func (e *Engine) WeeklyHours(ctx context.Context, employeeID int64, weekStart time.Time) (float64, error) {
	total := 0.0
	for i := 0; i < 7; i++ {
		hours, err := e.DailyHours(ctx, employeeID, weekStart.AddDate(0, 0, i))
		if err != nil {
			return 0, err
		}
		total += hours
	}
	return total, nil
}

// OvertimeApproaching reports whether the employee is within one hour of the
// configured daily overtime threshold.
func (e *Engine) OvertimeApproaching(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	hours, err := e.DailyHours(ctx, employeeID, date)
	if err != nil {
		return false, err
	}
	return hours >= float64(e.notifications.OvertimeThresholdHours)-1, nil
}

// NeedsBreakReminder reports whether the employee's open session has run at
// least the configured break reminder hours. Always false when clocked out.
func (e *Engine) NeedsBreakReminder(ctx context.Context, employeeID int64) (bool, error) {
	session, err := e.store.CurrentSession(ctx, employeeID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	elapsed := e.now().Sub(session.ClockIn)
	return elapsed >= time.Duration(e.notifications.BreakReminderHours)*time.Hour, nil
}

// lastClockOut finds the most recent non-null clock-out in the employee's
// full history. Records arrive clock-in descending from the store.
func (e *Engine) lastClockOut(ctx context.Context, employeeID int64) (*time.Time, error) {
	records, err := e.store.TimeRecords(ctx, store.RecordFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ClockOut != nil {
			return record.ClockOut, nil
		}
	}
	return nil, nil
}
