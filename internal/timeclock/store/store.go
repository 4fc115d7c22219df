package store

import (
	"context"
	"time"
)

// Employee is a roster entry. IDs are assigned by the store.
type Employee struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TimeRecord is a single work session. A nil ClockOut means the session is
// still open and the employee is considered clocked in. CreatedAt is audit
// only and never enters hour calculations.
type TimeRecord struct {
	ID         int64      `db:"id" json:"id"`
	EmployeeID int64      `db:"employee_id" json:"employee_id"`
	ClockIn    time.Time  `db:"clock_in" json:"clock_in"`
	ClockOut   *time.Time `db:"clock_out" json:"clock_out,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Open reports whether the record is an open session.
func (r *TimeRecord) Open() bool {
	return r.ClockOut == nil
}

// RecordFilter narrows TimeRecords queries. Date filters are inclusive on
// the calendar date of clock-in.
type RecordFilter struct {
	EmployeeID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// RecordStore is the persistence surface consumed by the rules engine and
// the report service.
type RecordStore interface {
	// TimeRecords returns records matching the filter, clock-in descending.
	TimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, error)

	// Employees returns the roster, optionally restricted to active entries.
	Employees(ctx context.Context, activeOnly bool) ([]Employee, error)

	// IsClockedIn reports whether the employee has an open session.
	IsClockedIn(ctx context.Context, employeeID int64) (bool, error)

	// CurrentSession returns the most recent open session, or nil when the
	// employee is clocked out. A missing session is not an error.
	CurrentSession(ctx context.Context, employeeID int64) (*TimeRecord, error)

	// ClockIn opens a new session at the store's current time.
	ClockIn(ctx context.Context, employeeID int64) (int64, error)

	// ClockOut closes the most recent open session. Returns false when no
	// open session exists.
	ClockOut(ctx context.Context, employeeID int64) (bool, error)

	// UpdateTimeRecord rewrites a record's clock times. Returns false when
	// no record with the given id exists.
	UpdateTimeRecord(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time) (bool, error)

	// DeleteTimeRecord removes a record. Returns false when absent.
	DeleteTimeRecord(ctx context.Context, id int64) (bool, error)

	// AddEmployee creates a roster entry and returns its id.
	AddEmployee(ctx context.Context, name string) (int64, error)

	// AutoClockOutExpired closes open sessions older than maxHours and
	// returns the number of sessions closed.
	AutoClockOutExpired(ctx context.Context, maxHours int) (int64, error)

	// SyncRoster creates employees for configured names that have no
	// store record yet.
	SyncRoster(ctx context.Context, names []string) error
}
