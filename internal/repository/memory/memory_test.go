package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func checkIn(at time.Time) func(*attendance.Entry) error {
	return func(e *attendance.Entry) error {
		return attendance.RecordCheckIn(e, attendance.Punch{Time: at})
	}
}

func TestAttendanceRepository_ConcurrentCheckInSameKey(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	key := attendance.EntryKey{CompanyID: "co-1", EmployeeID: "emp-1", Date: day(5)}

	const callers = 16
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ModifyEntry(ctx, key, checkIn(day(5).Add(9*time.Hour+time.Duration(i)*time.Minute)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var success, rejected int
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
		rejected++
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, callers-1, rejected)
}

func TestAttendanceRepository_DifferentKeysAreIndependent(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, emp := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(emp string) {
			defer wg.Done()
			key := attendance.EntryKey{CompanyID: "co-1", EmployeeID: emp, Date: day(5)}
			_, err := repo.ModifyEntry(ctx, key, checkIn(day(5).Add(9*time.Hour)))
			assert.NoError(t, err)
		}(emp)
	}
	wg.Wait()

	entries, err := repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-1"})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestAttendanceRepository_KeyLocksAreBounded(t *testing.T) {
	repo := NewAttendanceRepository(nil).(*attendanceRepository)
	ctx := context.Background()

	key := attendance.EntryKey{CompanyID: "co-1", EmployeeID: "emp-1", Date: day(5)}
	assert.Same(t, repo.keyLock(key.String()), repo.keyLock(key.String()))

	stripes := map[*sync.Mutex]struct{}{}
	for d := 1; d <= 28; d++ {
		for _, emp := range []string{"a", "b", "c", "d", "e"} {
			k := attendance.EntryKey{CompanyID: "co-1", EmployeeID: emp, Date: day(d)}
			_, err := repo.ModifyEntry(ctx, k, checkIn(day(d).Add(9*time.Hour)))
			require.NoError(t, err)
			stripes[repo.keyLock(k.String())] = struct{}{}
		}
	}
	assert.LessOrEqual(t, len(stripes), lockStripes)

	deleted, err := repo.DeleteEntriesBefore(ctx, day(29))
	require.NoError(t, err)
	assert.Equal(t, int64(140), deleted)

	// Purged days can be written again.
	_, err = repo.ModifyEntry(ctx, key, checkIn(day(5).Add(9*time.Hour)))
	assert.NoError(t, err)
}

func TestAttendanceRepository_FailedModifyWritesNothing(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	key := attendance.EntryKey{CompanyID: "co-1", EmployeeID: "emp-1", Date: day(5)}

	_, err := repo.ModifyEntry(ctx, key, func(e *attendance.Entry) error {
		return attendance.EndBreak(e, day(5).Add(12*time.Hour))
	})
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)

	found, err := repo.FindEntry(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, found)

	saved, err := repo.ModifyEntry(ctx, key, checkIn(day(5).Add(9*time.Hour)))
	require.NoError(t, err)

	_, err = repo.ModifyEntry(ctx, key, func(e *attendance.Entry) error {
		e.Breaks = append(e.Breaks, attendance.Break{ID: "x"})
		return attendance.ErrBreakAlreadyActive
	})
	require.Error(t, err)

	found, err = repo.FindEntry(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, found.Breaks, "mutation from a failed fn must not leak into storage")
	assert.Equal(t, saved.ID, found.ID)
}

func TestAttendanceRepository_ReturnedEntriesDoNotAlias(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()
	key := attendance.EntryKey{CompanyID: "co-1", EmployeeID: "emp-1", Date: day(5)}

	saved, err := repo.ModifyEntry(ctx, key, checkIn(day(5).Add(9*time.Hour)))
	require.NoError(t, err)
	saved.CheckIn.Time = day(5).Add(11 * time.Hour)

	found, err := repo.FindEntry(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, day(5).Add(9*time.Hour), found.CheckIn.Time)
}

func TestAttendanceRepository_RangeStatusAndRetention(t *testing.T) {
	employees := NewEmployeeRepository()
	repo := NewAttendanceRepository(employees)
	ctx := context.Background()

	emp, err := employees.Create(ctx, employee.Employee{CompanyID: "co-1", EmployeeCode: "E1", FullName: "Budi"})
	require.NoError(t, err)

	absent := attendance.StatusAbsent
	for d := 1; d <= 10; d++ {
		e := attendance.Entry{CompanyID: "co-1", EmployeeID: emp.ID, Date: day(d)}
		if d%2 == 0 {
			e.Status = absent
		}
		_, err := repo.UpsertEntry(ctx, e)
		require.NoError(t, err)
	}

	start, end := day(3), day(6)
	entries, err := repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-1", StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, 3, entries[0].Date.Day())
	assert.Equal(t, "Budi", *entries[0].EmployeeName)

	entries, err = repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-1", Status: &absent})
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	other, err := repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-2"})
	require.NoError(t, err)
	assert.Empty(t, other)

	deleted, err := repo.DeleteEntriesBefore(ctx, day(4))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	entries, err = repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-1"})
	require.NoError(t, err)
	assert.Len(t, entries, 7)
	assert.Equal(t, 4, entries[0].Date.Day())
}

func TestAttendanceRepository_GetAndDeleteScopedByCompany(t *testing.T) {
	repo := NewAttendanceRepository(nil)
	ctx := context.Background()

	saved, err := repo.UpsertEntry(ctx, attendance.Entry{CompanyID: "co-1", EmployeeID: "emp-1", Date: day(5)})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, saved.ID, "co-2")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID, "co-2"), attendance.ErrAttendanceNotFound)

	require.NoError(t, repo.Delete(ctx, saved.ID, "co-1"))
	_, err = repo.GetByID(ctx, saved.ID, "co-1")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestHolidayRepository(t *testing.T) {
	repo := NewHolidayRepository()
	ctx := context.Background()

	h, err := repo.Create(ctx, holiday.Holiday{CompanyID: "co-1", Name: "Nyepi", Date: day(11)})
	require.NoError(t, err)

	_, err = repo.Create(ctx, holiday.Holiday{CompanyID: "co-1", Name: "Nyepi", Date: day(11)})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)

	found, err := repo.ListByDate(ctx, "co-1", day(11).Add(14*time.Hour))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	from := day(12)
	found, err = repo.List(ctx, "co-1", &from, nil)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, repo.Delete(ctx, h.ID, "co-1"))
	assert.ErrorIs(t, repo.Delete(ctx, h.ID, "co-1"), holiday.ErrHolidayNotFound)
}
