package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
)

type PayrollServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	settings payroll.Settings
	loc      *time.Location
}

func NewPayrollService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settings payroll.Settings,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.Local
	}
	return &PayrollServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		settings:             settings,
		loc:                  loc,
	}
}

// GetAttendanceSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetAttendanceSummary(ctx context.Context, req payroll.AttendanceSummaryRequest) (payroll.AttendanceSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AttendanceSummaryResponse{}, err
	}

	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return payroll.AttendanceSummaryResponse{}, err
	}
	if !user.HasPermission(caller.Role, user.PermissionPayrollView) {
		return payroll.AttendanceSummaryResponse{}, user.ErrInsufficientPermissions
	}

	var employees []employee.Employee
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		emp, err := s.EmployeeRepository.GetByID(ctx, *req.EmployeeID, caller.CompanyID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return payroll.AttendanceSummaryResponse{}, payroll.ErrEmployeeNotFound
			}
			return payroll.AttendanceSummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		employees = []employee.Employee{emp}
	} else {
		employees, err = s.EmployeeRepository.GetActiveByCompanyID(ctx, caller.CompanyID)
		if err != nil {
			return payroll.AttendanceSummaryResponse{}, fmt.Errorf("failed to list employees: %w", err)
		}
	}

	start, end := req.Bounds(s.loc)
	filter := attendance.EntryFilter{
		CompanyID: caller.CompanyID,
		StartDate: &start,
		EndDate:   &end,
	}
	for _, emp := range employees {
		filter.EmployeeIDs = append(filter.EmployeeIDs, emp.ID)
	}

	var entries []attendance.Entry
	if len(employees) > 0 {
		entries, err = s.AttendanceRepository.FindEntriesInRange(ctx, filter)
		if err != nil {
			return payroll.AttendanceSummaryResponse{}, fmt.Errorf("failed to load attendance: %w", err)
		}
	}

	byEmployee := make(map[string][]attendance.Entry, len(employees))
	for _, e := range entries {
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], e)
	}

	summaries := make([]payroll.EmployeeAttendanceSummary, 0, len(employees))
	for _, emp := range employees {
		summary := payroll.Summarize(byEmployee[emp.ID])
		summaries = append(summaries, payroll.EmployeeAttendanceSummary{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			EmployeeCode: emp.EmployeeCode,
			BaseSalary:   emp.BaseSalary,
			Summary:      summary,
			Pay:          payroll.CalculateAttendancePay(summary, s.settings),
		})
	}

	return payroll.AttendanceSummaryResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		Company:     payroll.Summarize(entries),
		Employees:   summaries,
	}, nil
}
