package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
)

// MemStore is an in-memory RecordStore for unit tests. It mirrors the
// SQLite implementation's query semantics: records come back clock-in
// descending, date filters are inclusive on the clock-in calendar date.
type MemStore struct {
	clock     *Clock
	employees []store.Employee
	records   []store.TimeRecord
	nextEmpID int64
	nextRecID int64
}

// NewMemStore creates an empty store driven by the given clock. A nil clock
// falls back to real time.
func NewMemStore(clock *Clock) *MemStore {
	return &MemStore{
		clock:     clock,
		nextEmpID: 1,
		nextRecID: 1,
	}
}

func (m *MemStore) now() time.Time {
	return m.clock.NowFunc()()
}

// SeedEmployee adds a roster entry directly and returns its id.
func (m *MemStore) SeedEmployee(name string) int64 {
	id := m.nextEmpID
	m.nextEmpID++
	m.employees = append(m.employees, store.Employee{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: m.now(),
	})
	return id
}

// SeedRecord adds a record directly and returns its id.
func (m *MemStore) SeedRecord(employeeID int64, clockIn time.Time, clockOut *time.Time) int64 {
	id := m.nextRecID
	m.nextRecID++
	m.records = append(m.records, store.TimeRecord{
		ID:         id,
		EmployeeID: employeeID,
		ClockIn:    clockIn,
		ClockOut:   clockOut,
		CreatedAt:  m.now(),
	})
	return id
}

func dateOnOrAfter(t, bound time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	b := time.Date(bound.Year(), bound.Month(), bound.Day(), 0, 0, 0, 0, bound.Location())
	return !d.Before(b)
}

func (m *MemStore) TimeRecords(_ context.Context, filter store.RecordFilter) ([]store.TimeRecord, error) {
	var out []store.TimeRecord
	for _, r := range m.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && !dateOnOrAfter(r.ClockIn, *filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !dateOnOrAfter(*filter.EndDate, r.ClockIn) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.After(out[j].ClockIn) })
	return out, nil
}

func (m *MemStore) Employees(_ context.Context, activeOnly bool) ([]store.Employee, error) {
	var out []store.Employee
	for _, e := range m.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MemStore) IsClockedIn(ctx context.Context, employeeID int64) (bool, error) {
	session, err := m.CurrentSession(ctx, employeeID)
	return session != nil, err
}

func (m *MemStore) CurrentSession(_ context.Context, employeeID int64) (*store.TimeRecord, error) {
	var latest *store.TimeRecord
	for i := range m.records {
		r := &m.records[i]
		if r.EmployeeID != employeeID || r.ClockOut != nil {
			continue
		}
		if latest == nil || r.ClockIn.After(latest.ClockIn) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *MemStore) ClockIn(_ context.Context, employeeID int64) (int64, error) {
	return m.SeedRecord(employeeID, m.now(), nil), nil
}

func (m *MemStore) ClockOut(ctx context.Context, employeeID int64) (bool, error) {
	session, err := m.CurrentSession(ctx, employeeID)
	if err != nil || session == nil {
		return false, err
	}
	for i := range m.records {
		if m.records[i].ID == session.ID {
			out := m.now()
			m.records[i].ClockOut = &out
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) UpdateTimeRecord(_ context.Context, id int64, clockIn time.Time, clockOut *time.Time) (bool, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].ClockIn = clockIn
			m.records[i].ClockOut = clockOut
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) DeleteTimeRecord(_ context.Context, id int64) (bool, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) AddEmployee(_ context.Context, name string) (int64, error) {
	return m.SeedEmployee(name), nil
}

func (m *MemStore) AutoClockOutExpired(_ context.Context, maxHours int) (int64, error) {
	now := m.now()
	cutoff := now.Add(-time.Duration(maxHours) * time.Hour)
	var count int64
	for i := range m.records {
		if m.records[i].ClockOut == nil && m.records[i].ClockIn.Before(cutoff) {
			out := now
			m.records[i].ClockOut = &out
			count++
		}
	}
	return count, nil
}

func (m *MemStore) SyncRoster(ctx context.Context, names []string) error {
	existing := make(map[string]bool, len(m.employees))
	for _, e := range m.employees {
		existing[e.Name] = true
	}
	for _, name := range names {
		if !existing[name] {
			if _, err := m.AddEmployee(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}
