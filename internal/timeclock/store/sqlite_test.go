package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w1ngnutt/spf-time/internal/timeclock/store"
	"github.com/w1ngnutt/spf-time/pkg/errors"
	"github.com/w1ngnutt/spf-time/pkg/testutil"
)

func openStore(t *testing.T, clock *testutil.Clock) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(":memory:", nil, store.WithClock(clock.NowFunc()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_RequireExisting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.db")

	_, err := store.Open(missing, nil, store.RequireExisting())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigMissing))
	assert.Contains(t, err.Error(), missing)
}

func TestClockInOut_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	id, err := s.AddEmployee(ctx, "Ann")
	require.NoError(t, err)

	in, err := s.IsClockedIn(ctx, id)
	require.NoError(t, err)
	assert.False(t, in)

	recordID, err := s.ClockIn(ctx, id)
	require.NoError(t, err)
	assert.NotZero(t, recordID)

	in, err = s.IsClockedIn(ctx, id)
	require.NoError(t, err)
	assert.True(t, in)

	session, err := s.CurrentSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, recordID, session.ID)
	assert.Nil(t, session.ClockOut)

	clock.Advance(8 * time.Hour)
	closed, err := s.ClockOut(ctx, id)
	require.NoError(t, err)
	assert.True(t, closed)

	session, err = s.CurrentSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, session)

	records, err := s.TimeRecords(ctx, store.RecordFilter{EmployeeID: &id})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ClockOut)
	assert.InDelta(t, 8.0, records[0].ClockOut.Sub(records[0].ClockIn).Hours(), 1e-6)
}

func TestClockOut_NoOpenSession(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	id, err := s.AddEmployee(ctx, "Ann")
	require.NoError(t, err)

	closed, err := s.ClockOut(ctx, id)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestTimeRecords_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	ann, err := s.AddEmployee(ctx, "Ann")
	require.NoError(t, err)
	bob, err := s.AddEmployee(ctx, "Bob")
	require.NoError(t, err)

	// One shift per day 03-04 through 03-06 for Ann, one for Bob.
	for day := 0; day < 3; day++ {
		clock.Set(time.Date(2024, 3, 4+day, 9, 0, 0, 0, time.UTC))
		_, err = s.ClockIn(ctx, ann)
		require.NoError(t, err)
		clock.Advance(8 * time.Hour)
		_, err = s.ClockOut(ctx, ann)
		require.NoError(t, err)
	}
	clock.Set(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	_, err = s.ClockIn(ctx, bob)
	require.NoError(t, err)

	all, err := s.TimeRecords(ctx, store.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].ClockIn.After(all[i-1].ClockIn), "records must be clock-in descending")
	}

	onlyAnn, err := s.TimeRecords(ctx, store.RecordFilter{EmployeeID: &ann})
	require.NoError(t, err)
	assert.Len(t, onlyAnn, 3)

	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	oneDay, err := s.TimeRecords(ctx, store.RecordFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, oneDay, 2, "date filters are inclusive on the clock-in date")
}

func TestUpdateAndDeleteTimeRecord(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	id, err := s.AddEmployee(ctx, "Ann")
	require.NoError(t, err)
	recordID, err := s.ClockIn(ctx, id)
	require.NoError(t, err)

	newIn := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	newOut := newIn.Add(4 * time.Hour)
	ok, err := s.UpdateTimeRecord(ctx, recordID, newIn, &newOut)
	require.NoError(t, err)
	assert.True(t, ok)

	records, err := s.TimeRecords(ctx, store.RecordFilter{EmployeeID: &id})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ClockOut)
	assert.InDelta(t, 4.0, records[0].ClockOut.Sub(records[0].ClockIn).Hours(), 1e-6)

	ok, err = s.DeleteTimeRecord(ctx, recordID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteTimeRecord(ctx, recordID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAutoClockOutExpired(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	ann, err := s.AddEmployee(ctx, "Ann")
	require.NoError(t, err)
	bob, err := s.AddEmployee(ctx, "Bob")
	require.NoError(t, err)

	_, err = s.ClockIn(ctx, ann)
	require.NoError(t, err)

	clock.Advance(11 * time.Hour)
	_, err = s.ClockIn(ctx, bob)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	count, err := s.AutoClockOutExpired(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "only the 13-hour session expires")

	in, err := s.IsClockedIn(ctx, ann)
	require.NoError(t, err)
	assert.False(t, in)

	in, err = s.IsClockedIn(ctx, bob)
	require.NoError(t, err)
	assert.True(t, in)
}

func TestSyncRoster(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	s := openStore(t, clock)

	require.NoError(t, s.SyncRoster(ctx, []string{"Ann", "Bob"}))

	employees, err := s.Employees(ctx, false)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Ann", employees[0].Name)
	assert.True(t, employees[0].IsActive)

	// Re-syncing with an overlapping roster only adds the new name.
	require.NoError(t, s.SyncRoster(ctx, []string{"Ann", "Cid"}))
	employees, err = s.Employees(ctx, false)
	require.NoError(t, err)
	assert.Len(t, employees, 3)
}
