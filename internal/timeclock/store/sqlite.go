package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/w1ngnutt/spf-time/pkg/errors"
	"github.com/w1ngnutt/spf-time/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	is_active BOOLEAN DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS time_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	clock_in TIMESTAMP NOT NULL,
	clock_out TIMESTAMP NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (employee_id) REFERENCES employees (id)
);

CREATE INDEX IF NOT EXISTS idx_employee_id ON time_records(employee_id);
CREATE INDEX IF NOT EXISTS idx_clock_in ON time_records(clock_in);
`

// SQLiteStore is the RecordStore implementation backed by a SQLite file.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logger.Logger
	now    func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	now             func() time.Time
	requireExisting bool
}

// WithClock overrides the store's time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// RequireExisting makes Open fail with ErrConfigMissing when the database
// file does not exist, instead of creating an empty one. The reporting CLI
// uses this so a mistyped path is not silently reported as zero hours.
func RequireExisting() Option {
	return func(o *options) { o.requireExisting = true }
}

// Open opens (and if needed initializes) the SQLite database at path.
func Open(path string, log *logger.Logger, opts ...Option) (*SQLiteStore, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if o.requireExisting && path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.ConfigMissing(path)
		}
	}

	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite handles one writer at a time; a single pooled connection also
	// keeps :memory: databases coherent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: log,
		now:    o.now,
	}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// TimeRecords returns records matching the filter, clock-in descending.
func (s *SQLiteStore) TimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, error) {
	query := `
		SELECT id, employee_id, clock_in, clock_out, created_at
		FROM time_records WHERE 1=1
	`
	var args []interface{}

	if filter.EmployeeID != nil {
		query += " AND employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.StartDate != nil {
		query += " AND DATE(clock_in) >= ?"
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		query += " AND DATE(clock_in) <= ?"
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	query += " ORDER BY clock_in DESC"

	var records []TimeRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query time records: %w", err)
	}
	return records, nil
}

// Employees returns the roster, optionally restricted to active entries.
func (s *SQLiteStore) Employees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := `SELECT id, name, is_active, created_at FROM employees`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id`

	var employees []Employee
	if err := s.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	return employees, nil
}

// IsClockedIn reports whether the employee has an open session.
func (s *SQLiteStore) IsClockedIn(ctx context.Context, employeeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM time_records WHERE employee_id = ? AND clock_out IS NULL`
	if err := s.db.GetContext(ctx, &count, query, employeeID); err != nil {
		return false, fmt.Errorf("failed to check clocked-in state: %w", err)
	}
	return count > 0, nil
}

// CurrentSession returns the most recent open session, or nil when the
// employee is clocked out.
func (s *SQLiteStore) CurrentSession(ctx context.Context, employeeID int64) (*TimeRecord, error) {
	var record TimeRecord
	query := `
		SELECT id, employee_id, clock_in, clock_out, created_at
		FROM time_records
		WHERE employee_id = ? AND clock_out IS NULL
		ORDER BY clock_in DESC LIMIT 1
	`
	err := s.db.GetContext(ctx, &record, query, employeeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query current session: %w", err)
	}
	return &record, nil
}

// ClockIn opens a new session at the store's current time.
func (s *SQLiteStore) ClockIn(ctx context.Context, employeeID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO time_records (employee_id, clock_in) VALUES (?, ?)`,
		employeeID, s.now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clock in: %w", err)
	}
	return result.LastInsertId()
}

// ClockOut closes the most recent open session. Returns false when no open
// session exists.
func (s *SQLiteStore) ClockOut(ctx context.Context, employeeID int64) (bool, error) {
	var closed bool
	err := s.transact(ctx, func(tx *sqlx.Tx) error {
		var recordID int64
		err := tx.GetContext(ctx, &recordID, `
			SELECT id FROM time_records
			WHERE employee_id = ? AND clock_out IS NULL
			ORDER BY clock_in DESC LIMIT 1
		`, employeeID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE time_records SET clock_out = ? WHERE id = ?`,
			s.now(), recordID,
		)
		if err != nil {
			return err
		}
		affected, _ := result.RowsAffected()
		closed = affected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to clock out: %w", err)
	}
	return closed, nil
}

// UpdateTimeRecord rewrites a record's clock times.
func (s *SQLiteStore) UpdateTimeRecord(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE time_records SET clock_in = ?, clock_out = ? WHERE id = ?`,
		clockIn, clockOut, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update time record: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// DeleteTimeRecord removes a record.
func (s *SQLiteStore) DeleteTimeRecord(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM time_records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete time record: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// AddEmployee creates a roster entry and returns its id.
func (s *SQLiteStore) AddEmployee(ctx context.Context, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO employees (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to add employee: %w", err)
	}
	return result.LastInsertId()
}

// AutoClockOutExpired closes open sessions whose clock-in is older than
// maxHours, stamping clock-out with the current time.
func (s *SQLiteStore) AutoClockOutExpired(ctx context.Context, maxHours int) (int64, error) {
	now := s.now()
	cutoff := now.Add(-time.Duration(maxHours) * time.Hour)

	result, err := s.db.ExecContext(ctx,
		`UPDATE time_records SET clock_out = ? WHERE clock_out IS NULL AND clock_in < ?`,
		now, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to auto clock out expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// SyncRoster creates employees for configured names that have no store
// record yet. Existing employees are left untouched.
func (s *SQLiteStore) SyncRoster(ctx context.Context, names []string) error {
	employees, err := s.Employees(ctx, false)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(employees))
	for _, emp := range employees {
		existing[emp.Name] = true
	}

	for _, name := range names {
		if existing[name] {
			continue
		}
		id, err := s.AddEmployee(ctx, name)
		if err != nil {
			return err
		}
		if s.logger != nil {
			s.logger.Info().Str("name", name).Int64("employee_id", id).Msg("created roster employee")
		}
	}
	return nil
}

func (s *SQLiteStore) transact(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
