package report

import (
	"context"
	"fmt"
	"time"

	"github.com/w1ngnutt/spf-time/internal/timeclock/payroll"
	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
	"github.com/w1ngnutt/spf-time/pkg/config"
	"github.com/w1ngnutt/spf-time/pkg/errors"
)

// MaxWeeks bounds the report range accepted from callers.
const MaxWeeks = 52

// Data is one report's materialized snapshot: the records and roster for a
// closed range of complete payroll weeks.
type Data struct {
	Records   []store.TimeRecord
	Employees []store.Employee
	Start     time.Time
	End       time.Time
}

// DateRange formats the period the way report subjects and headers show it.
func (d *Data) DateRange() string {
	return fmt.Sprintf("%s to %s", d.Start.Format("2006-01-02"), d.End.Format("2006-01-02"))
}

// Aggregate builds the week-set view of the snapshot.
func (d *Data) Aggregate(startDay int) *WeekSet {
	return Aggregate(d.Records, d.Employees, d.Start, d.End, startDay)
}

// Service assembles report data over complete payroll weeks. It reads one
// store snapshot per call and keeps no state between calls.
type Service struct {
	store   store.RecordStore
	payroll config.PayrollConfig
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service's time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a report service bound to a record store.
func NewService(s store.RecordStore, payroll config.PayrollConfig, opts ...Option) *Service {
	svc := &Service{
		store:   s,
		payroll: payroll,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Data fetches records and roster for the numWeeks complete payroll weeks
// before the current, in-progress week. The partial current week is never
// reported on.
func (s *Service) Data(ctx context.Context, numWeeks int) (*Data, error) {
	if numWeeks < 1 || numWeeks > MaxWeeks {
		return nil, errors.InvalidInput(fmt.Sprintf("number of weeks must be between 1 and %d", MaxWeeks))
	}

	start, end := payroll.PreviousCompleteWeeks(numWeeks, s.now(), s.payroll.StartDay)

	records, err := s.store.TimeRecords(ctx, store.RecordFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	employees, err := s.store.Employees(ctx, false)
	if err != nil {
		return nil, err
	}

	return &Data{
		Records:   records,
		Employees: employees,
		Start:     start,
		End:       end,
	}, nil
}

// StartDay exposes the configured payroll week start for renderers.
func (s *Service) StartDay() int {
	return s.payroll.StartDay
}
