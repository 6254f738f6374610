package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type Options struct {
	// Location decides where a calendar day starts. Nil means time.Local.
	Location      *time.Location
	RetentionDays int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy        schedule.PolicyResolver
	gate          holiday.Gate
	sink          notification.Sink
	loc           *time.Location
	retentionDays int
	now           func() time.Time
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	key := a.todayKey(caller, now)

	var department, location *string
	emp, err := a.EmployeeRepository.GetByID(ctx, caller.EmployeeID, caller.CompanyID)
	if err != nil {
		slog.Warn("Employee lookup failed, holiday filters not applied",
			"employee_id", caller.EmployeeID, "date", key.Date.Format("2006-01-02"), "error", err)
	} else {
		department, location = emp.Department, emp.Location
	}

	if a.gate != nil {
		if h := a.gate.IsHoliday(ctx, caller.CompanyID, now, department, location); h != nil {
			return attendance.EntryResponse{}, attendance.ErrHolidayBlocked
		}
	}

	policy := a.resolvePolicy(ctx, caller.CompanyID, caller.EmployeeID)

	saved, err := a.AttendanceRepository.ModifyEntry(ctx, key, func(e *attendance.Entry) error {
		if err := attendance.RecordCheckIn(e, req.Punch(now)); err != nil {
			return err
		}
		lateness := policy.Lateness(now)
		e.IsLate = lateness.IsLate
		e.LateMinutes = lateness.LateMinutes
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "check in")
	}

	a.emit(ctx, notification.EventCheckIn, saved, now, map[string]interface{}{
		"isLate":      saved.IsLate,
		"lateMinutes": saved.LateMinutes,
	})

	return attendance.NewEntryResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	policy := a.resolvePolicy(ctx, caller.CompanyID, caller.EmployeeID)

	saved, err := a.AttendanceRepository.ModifyEntry(ctx, a.todayKey(caller, now), func(e *attendance.Entry) error {
		if err := attendance.RecordCheckOut(e, req.Punch(now)); err != nil {
			return err
		}
		e.Overtime = policy.Overtime(now)
		*e = attendance.Recompute(*e)
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "check out")
	}

	a.emit(ctx, notification.EventCheckOut, saved, now, map[string]interface{}{
		"totalWorkingHours": saved.TotalWorkingHours,
		"totalBreakTime":    saved.TotalBreakTime,
		"overtime":          saved.Overtime,
	})

	return attendance.NewEntryResponse(saved), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	saved, err := a.AttendanceRepository.ModifyEntry(ctx, a.todayKey(caller, now), func(e *attendance.Entry) error {
		return attendance.StartBreak(e, attendance.BreakType(req.BreakType), req.Reason, now)
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "start break")
	}

	a.emit(ctx, notification.EventBreakStart, saved, now, map[string]interface{}{
		"breakType": req.BreakType,
	})

	return attendance.NewEntryResponse(saved), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.EntryResponse, error) {
	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	var ended attendance.Break
	saved, err := a.AttendanceRepository.ModifyEntry(ctx, a.todayKey(caller, now), func(e *attendance.Entry) error {
		idx, ok := attendance.ActiveBreak(*e)
		if err := attendance.EndBreak(e, now); err != nil {
			return err
		}
		if ok {
			ended = e.Breaks[idx]
		}
		// A break left open through check-out changes the day's totals.
		*e = attendance.Recompute(*e)
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "end break")
	}

	data := map[string]interface{}{"breakType": ended.BreakType}
	if ended.Duration != nil {
		data["duration"] = *ended.Duration
	}
	a.emit(ctx, notification.EventBreakEnd, saved, now, data)

	return attendance.NewEntryResponse(saved), nil
}

// AddActivityNote implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AddActivityNote(ctx context.Context, req attendance.ActivityNoteRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	saved, err := a.AttendanceRepository.ModifyEntry(ctx, a.todayKey(caller, now), func(e *attendance.Entry) error {
		if e.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		attendance.AddActivityNote(e, req.Note, now)
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "add activity note")
	}

	return attendance.NewEntryResponse(saved), nil
}

// UpdateActivityNote implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateActivityNote(ctx context.Context, req attendance.ActivityNoteRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	now := a.clock()
	saved, err := a.AttendanceRepository.ModifyEntry(ctx, a.todayKey(caller, now), func(e *attendance.Entry) error {
		if e.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		return attendance.UpdateActivityNote(e, req.NoteID, req.Note, now)
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "update activity note")
	}

	return attendance.NewEntryResponse(saved), nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	now := a.clock()
	entry, err := a.AttendanceRepository.FindEntry(ctx, a.todayKey(caller, now))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{State: attendance.DeriveState(entry)}
	if entry == nil {
		return resp, nil
	}

	entryResp := attendance.NewEntryResponse(*entry)
	resp.Entry = &entryResp
	resp.LiveTotals = attendance.LiveTotals(*entry, now)
	if idx, ok := attendance.ActiveBreak(*entry); ok {
		active := entry.Breaks[idx]
		resp.ActiveBreak = &active
	}

	return resp, nil
}

// ListMyEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMyEntries(ctx context.Context, filter attendance.ListFilter) (attendance.ListEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	caller, err := user.EmployeeCallerFromContext(ctx)
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	filter.EmployeeID = &caller.EmployeeID
	return a.list(ctx, caller.CompanyID, filter)
}

// ListEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEntries(ctx context.Context, filter attendance.ListFilter) (attendance.ListEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	caller, err := a.managerFromContext(ctx)
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	return a.list(ctx, caller.CompanyID, filter)
}

// list returns one page of entries, newest day first.
func (a *AttendanceServiceImpl) list(ctx context.Context, companyID string, filter attendance.ListFilter) (attendance.ListEntriesResponse, error) {
	query := attendance.EntryFilter{CompanyID: companyID}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		query.EmployeeIDs = []string{*filter.EmployeeID}
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		if d, ok := validator.IsValidDateIn(*filter.StartDate, a.location()); ok {
			query.StartDate = &d
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if d, ok := validator.IsValidDateIn(*filter.EndDate, a.location()); ok {
			query.EndDate = &d
		}
	}
	if filter.Status != nil {
		status := attendance.Status(*filter.Status)
		query.Status = &status
	}

	entries, err := a.AttendanceRepository.FindEntriesInRange(ctx, query)
	if err != nil {
		return attendance.ListEntriesResponse{}, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	slices.Reverse(entries)

	total := int64(len(entries))
	from := min((filter.Page-1)*filter.Limit, len(entries))
	to := min(from+filter.Limit, len(entries))

	responses := make([]attendance.EntryResponse, 0, to-from)
	for _, e := range entries[from:to] {
		responses = append(responses, attendance.NewEntryResponse(e))
	}

	return attendance.ListEntriesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Entries:    responses,
	}, nil
}

// GetEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEntry(ctx context.Context, id string) (attendance.EntryResponse, error) {
	caller, err := a.managerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	e, err := a.AttendanceRepository.GetByID(ctx, id, caller.CompanyID)
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "get attendance")
	}

	return attendance.NewEntryResponse(e), nil
}

// UpdateEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateEntry(ctx context.Context, req attendance.UpdateEntryRequest) (attendance.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EntryResponse{}, err
	}

	caller, err := a.managerFromContext(ctx)
	if err != nil {
		return attendance.EntryResponse{}, err
	}

	current, err := a.AttendanceRepository.GetByID(ctx, req.ID, caller.CompanyID)
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "get attendance")
	}

	policy := a.resolvePolicy(ctx, caller.CompanyID, current.EmployeeID)

	saved, err := a.AttendanceRepository.ModifyEntry(ctx, current.Key(), func(e *attendance.Entry) error {
		if e.ID != current.ID {
			return attendance.ErrAttendanceNotFound
		}

		if t := req.ParsedCheckIn(); t != nil {
			if e.CheckIn == nil {
				e.CheckIn = &attendance.Punch{}
			}
			e.CheckIn.Time = *t
			lateness := policy.Lateness(t.In(a.location()))
			e.IsLate = lateness.IsLate
			e.LateMinutes = lateness.LateMinutes
		}

		if t := req.ParsedCheckOut(); t != nil {
			if e.CheckIn == nil {
				return attendance.ErrNoCheckIn
			}
			if e.CheckOut == nil {
				e.CheckOut = &attendance.Punch{}
			}
			e.CheckOut.Time = *t
			e.Overtime = policy.Overtime(t.In(a.location()))
		}

		if e.CheckIn != nil && e.CheckOut != nil && e.CheckOut.Time.Before(e.CheckIn.Time) {
			var errs validator.ValidationErrors
			errs.Add("check_out_time", "check_out_time must not be before check_in_time")
			return errs
		}

		if req.Status != nil {
			e.Status = attendance.Status(*req.Status)
		}

		*e = attendance.Recompute(*e)
		return nil
	})
	if err != nil {
		return attendance.EntryResponse{}, a.wrap(err, "update attendance")
	}

	return attendance.NewEntryResponse(saved), nil
}

// DeleteEntry implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	caller, err := a.managerFromContext(ctx)
	if err != nil {
		return err
	}

	if err := a.AttendanceRepository.Delete(ctx, id, caller.CompanyID); err != nil {
		return a.wrap(err, "delete attendance")
	}

	return nil
}

// PurgeExpiredEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PurgeExpiredEntries(ctx context.Context) (int64, error) {
	cutoff := RetentionCutoff(a.clock(), a.location(), a.retentionDays)

	deleted, err := a.AttendanceRepository.DeleteEntriesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge attendance entries before %s: %w", cutoff.Format("2006-01-02"), err)
	}

	slog.Info("Attendance retention sweep finished",
		"cutoff", cutoff.Format("2006-01-02"), "retention_days", a.retentionDays, "deleted", deleted)
	return deleted, nil
}

// RetentionCutoff is the first day kept by a sweep run at now: local midnight
// minus days. Entries dated strictly before it are expired.
func RetentionCutoff(now time.Time, loc *time.Location, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return attendance.StartOfDay(now, loc).AddDate(0, 0, -days)
}

func (a *AttendanceServiceImpl) clock() time.Time {
	return a.now().In(a.location())
}

func (a *AttendanceServiceImpl) location() *time.Location {
	if a.loc == nil {
		return time.Local
	}
	return a.loc
}

func (a *AttendanceServiceImpl) todayKey(caller user.Caller, now time.Time) attendance.EntryKey {
	return attendance.EntryKey{
		CompanyID:  caller.CompanyID,
		EmployeeID: caller.EmployeeID,
		Date:       attendance.StartOfDay(now, a.location()),
	}
}

func (a *AttendanceServiceImpl) resolvePolicy(ctx context.Context, companyID, employeeID string) *schedule.ShiftPolicy {
	if a.policy == nil {
		return nil
	}
	return a.policy.Resolve(ctx, companyID, employeeID)
}

func (a *AttendanceServiceImpl) managerFromContext(ctx context.Context) (user.Caller, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}
	if !caller.IsManager() {
		return user.Caller{}, user.ErrManagerAccessRequired
	}
	return caller, nil
}

// wrap passes domain rejections through untouched and wraps storage failures.
func (a *AttendanceServiceImpl) wrap(err error, op string) error {
	var verrs validator.ValidationErrors
	switch {
	case attendance.IsPreconditionViolation(err),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, attendance.ErrActivityNoteNotFound),
		errors.As(err, &verrs):
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// emit announces a transition on the dashboard channel. Failures are logged only.
func (a *AttendanceServiceImpl) emit(ctx context.Context, eventType notification.EventType, e attendance.Entry, at time.Time, data map[string]interface{}) {
	if a.sink == nil {
		return
	}

	ref := notification.EmployeeRef{ID: e.EmployeeID}
	if e.EmployeeName != nil {
		ref.Name = *e.EmployeeName
	}
	if e.EmployeeCode != nil {
		ref.EmployeeID = *e.EmployeeCode
	}

	event := notification.Event{
		ID:        uuid.New().String(),
		CompanyID: e.CompanyID,
		Type:      eventType,
		Employee:  ref,
		Time:      at,
		Data:      data,
	}
	if err := a.sink.Emit(ctx, event); err != nil {
		slog.Warn("Failed to emit attendance event",
			"type", eventType, "employee_id", e.EmployeeID, "date", e.Date.Format("2006-01-02"), "error", err)
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy schedule.PolicyResolver,
	gate holiday.Gate,
	sink notification.Sink,
	opts Options,
) attendance.AttendanceService {
	return newAttendanceService(attendanceRepo, employeeRepo, policy, gate, sink, opts, time.Now)
}

func newAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy schedule.PolicyResolver,
	gate holiday.Gate,
	sink notification.Sink,
	opts Options,
	now func() time.Time,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policy:               policy,
		gate:                 gate,
		sink:                 sink,
		loc:                  opts.Location,
		retentionDays:        opts.RetentionDays,
		now:                  now,
	}
}
