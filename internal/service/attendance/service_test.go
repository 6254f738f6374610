package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/repository/memory"
	holidayservice "github.com/cmlabs-hris/hris-timeledger-go/internal/service/holiday"
	scheduleservice "github.com/cmlabs-hris/hris-timeledger-go/internal/service/schedule"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

func strPtr(s string) *string { return &s }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = time.Date(c.t.Year(), c.t.Month(), c.t.Day(), hour, minute, 0, 0, wib)
}

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

func (s *recordingSink) Emit(ctx context.Context, event notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []notification.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.EventType
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc       *AttendanceServiceImpl
	clock     *fakeClock
	sink      *recordingSink
	employees *memory.EmployeeRepository
	holidays  holiday.HolidayRepository
	repo      attendance.AttendanceRepository
	emp       employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	employees := memory.NewEmployeeRepository()
	emp, err := employees.Create(context.Background(), employee.Employee{
		CompanyID:      "co-1",
		EmployeeCode:   "EMP-001",
		FullName:       "Dewi Lestari",
		Department:     strPtr("Engineering"),
		ShiftStartTime: strPtr("09:00"),
		ShiftEndTime:   strPtr("18:00"),
	})
	require.NoError(t, err)

	holidays := memory.NewHolidayRepository()
	repo := memory.NewAttendanceRepository(employees)
	clock := &fakeClock{t: time.Date(2024, 3, 5, 8, 0, 0, 0, wib)}
	sink := &recordingSink{}

	svc := newAttendanceService(
		repo,
		employees,
		scheduleservice.NewPolicyResolver(employees),
		holidayservice.NewHolidayService(holidays, wib),
		sink,
		Options{Location: wib, RetentionDays: 45},
		clock.Now,
	)

	return &fixture{svc: svc, clock: clock, sink: sink, employees: employees, holidays: holidays, repo: repo, emp: emp}
}

func (f *fixture) employeeContext(t *testing.T) context.Context {
	return contextWithClaims(t, map[string]interface{}{
		"user_id":     "u-1",
		"employee_id": f.emp.ID,
		"company_id":  "co-1",
		"role":        string(user.RoleEmployee),
	})
}

func managerContext(t *testing.T) context.Context {
	return contextWithClaims(t, map[string]interface{}{
		"user_id":    "u-mgr",
		"company_id": "co-1",
		"role":       string(user.RoleManager),
	})
}

func contextWithClaims(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestAttendanceService_FullDayScenario(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	f.clock.Set(9, 15)
	resp, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{PunchRequest: attendance.PunchRequest{Location: strPtr("HQ")}})
	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 15, resp.LateMinutes)
	assert.Equal(t, "2024-03-05", resp.Date)

	f.clock.Set(12, 0)
	_, err = f.svc.StartBreak(ctx, attendance.StartBreakRequest{BreakType: "Lunch"})
	require.NoError(t, err)

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOnBreak, today.State)
	require.NotNil(t, today.ActiveBreak)
	assert.Equal(t, attendance.BreakTypeLunch, today.ActiveBreak.BreakType)

	f.clock.Set(12, 30)
	_, err = f.svc.EndBreak(ctx)
	require.NoError(t, err)

	f.clock.Set(18, 30)
	resp, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Overtime)
	assert.Equal(t, 30, resp.TotalBreakTime)
	assert.Equal(t, 525, resp.TotalWorkingHours)
	assert.Equal(t, attendance.StatusPresent, resp.Status)

	today, err = f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, today.State)
	assert.Equal(t, attendance.Totals{LoginMinutes: 555, BreakMinutes: 30, WorkingMinutes: 525}, today.LiveTotals)

	assert.Equal(t, []notification.EventType{
		notification.EventCheckIn,
		notification.EventBreakStart,
		notification.EventBreakEnd,
		notification.EventCheckOut,
	}, f.sink.types())

	first := f.sink.events[0]
	assert.Equal(t, "co-1", first.CompanyID)
	assert.Equal(t, notification.EmployeeRef{ID: f.emp.ID, Name: "Dewi Lestari", EmployeeID: "EMP-001"}, first.Employee)
}

func TestAttendanceService_RejectionsDoNotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	f.clock.Set(8, 0)
	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoCheckIn)
	_, err = f.svc.StartBreak(ctx, attendance.StartBreakRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	_, err = f.svc.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNotCheckedIn, today.State)
	assert.Nil(t, today.Entry, "failed operations must not create an entry")

	f.clock.Set(8, 55)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	f.clock.Set(9, 10)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	today, err = f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 55, 0, 0, wib), today.Entry.CheckIn.Time)
	assert.False(t, today.Entry.IsLate)

	_, err = f.svc.StartBreak(ctx, attendance.StartBreakRequest{BreakType: "short"})
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, attendance.StartBreakRequest{BreakType: "lunch"})
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyActive)

	assert.Len(t, f.sink.types(), 2)
}

func TestAttendanceService_ConcurrentCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)
	f.clock.Set(9, 0)

	const callers = 10
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var success int
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, success)
}

func TestAttendanceService_HolidayBlocksCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	_, err := f.holidays.Create(context.Background(), holiday.Holiday{
		CompanyID:   "co-1",
		Name:        "Engineering offsite",
		Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Departments: []string{"Engineering"},
	})
	require.NoError(t, err)

	f.clock.Set(9, 0)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrHolidayBlocked)
	assert.False(t, attendance.IsPreconditionViolation(err))
	assert.Empty(t, f.sink.types())

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNotCheckedIn, today.State)
}

func TestAttendanceService_BestEffortLookupsNeverBlock(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("sink unavailable")

	// Caller has no employee record: no policy, no holiday filters.
	ctx := contextWithClaims(t, map[string]interface{}{
		"employee_id": "ghost",
		"company_id":  "co-1",
		"role":        "employee",
	})

	f.clock.Set(11, 0)
	resp, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.False(t, resp.IsLate)

	f.clock.Set(23, 0)
	resp, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Overtime)
	assert.Equal(t, 720, resp.TotalWorkingHours)
}

func TestAttendanceService_ActivityNotes(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	_, err := f.svc.AddActivityNote(ctx, attendance.ActivityNoteRequest{Note: "planning"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	f.clock.Set(9, 0)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	resp, err := f.svc.AddActivityNote(ctx, attendance.ActivityNoteRequest{Note: "  planning  "})
	require.NoError(t, err)
	require.Len(t, resp.ActivityNotes, 1)
	assert.Equal(t, "planning", resp.ActivityNotes[0].Note)

	resp, err = f.svc.UpdateActivityNote(ctx, attendance.ActivityNoteRequest{NoteID: resp.ActivityNotes[0].ID, Note: "sprint planning"})
	require.NoError(t, err)
	assert.Equal(t, "sprint planning", resp.ActivityNotes[0].Note)

	_, err = f.svc.UpdateActivityNote(ctx, attendance.ActivityNoteRequest{NoteID: "nope", Note: "x"})
	assert.ErrorIs(t, err, attendance.ErrActivityNoteNotFound)
}

func TestAttendanceService_AdminCorrectionRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	f.clock.Set(9, 30)
	checkedIn, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)
	require.True(t, checkedIn.IsLate)

	_, err = f.svc.UpdateEntry(ctx, attendance.UpdateEntryRequest{ID: checkedIn.ID, Status: strPtr("late")})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	mgr := managerContext(t)
	resp, err := f.svc.UpdateEntry(mgr, attendance.UpdateEntryRequest{
		ID:           checkedIn.ID,
		CheckInTime:  strPtr("2024-03-05T09:00:00+07:00"),
		CheckOutTime: strPtr("2024-03-05T18:45:00+07:00"),
		Status:       strPtr("half-day"),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, 45, resp.Overtime)
	assert.Equal(t, 585, resp.TotalWorkingHours)
	assert.Equal(t, attendance.StatusHalfDay, resp.Status)

	got, err := f.svc.GetEntry(mgr, checkedIn.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.TotalWorkingHours, got.TotalWorkingHours)

	require.NoError(t, f.svc.DeleteEntry(mgr, checkedIn.ID))
	_, err = f.svc.GetEntry(mgr, checkedIn.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_ListMyEntriesPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := f.employeeContext(t)

	for d := 1; d <= 5; d++ {
		_, err := f.repo.UpsertEntry(context.Background(), attendance.Entry{
			CompanyID:  "co-1",
			EmployeeID: f.emp.ID,
			Date:       time.Date(2024, 3, d, 0, 0, 0, 0, wib),
			CheckIn:    &attendance.Punch{Time: time.Date(2024, 3, d, 9, 0, 0, 0, wib)},
		})
		require.NoError(t, err)
	}
	_, err := f.repo.UpsertEntry(context.Background(), attendance.Entry{
		CompanyID: "co-1", EmployeeID: "someone-else", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, wib),
	})
	require.NoError(t, err)

	page, err := f.svc.ListMyEntries(ctx, attendance.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "2024-03-05", page.Entries[0].Date)

	page, err = f.svc.ListMyEntries(ctx, attendance.ListFilter{Page: 3, Limit: 2, StartDate: strPtr("2024-03-01")})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "2024-03-01", page.Entries[0].Date)

	all, err := f.svc.ListEntries(managerContext(t), attendance.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), all.TotalCount)
}

func TestAttendanceService_PurgeExpiredEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// today is 2024-03-05, so the cutoff is 2024-01-20
	for _, d := range []time.Time{
		time.Date(2024, 1, 19, 0, 0, 0, 0, wib),
		time.Date(2024, 1, 20, 0, 0, 0, 0, wib),
		time.Date(2024, 3, 5, 0, 0, 0, 0, wib),
	} {
		_, err := f.repo.UpsertEntry(ctx, attendance.Entry{CompanyID: "co-1", EmployeeID: f.emp.ID, Date: d})
		require.NoError(t, err)
	}

	deleted, err := f.svc.PurgeExpiredEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	left, err := f.repo.FindEntriesInRange(ctx, attendance.EntryFilter{CompanyID: "co-1"})
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, 20, left[0].Date.Day())
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 5, 23, 59, 0, 0, wib)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, wib), RetentionCutoff(now, wib, 45))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, wib), RetentionCutoff(now, wib, 0))
}
