package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendance"

var attendanceHeaders = []string{
	"Employee Code", "Employee Name", "Department", "Date", "Check In", "Check Out",
	"Working Minutes", "Break Minutes", "Late Minutes", "Overtime Minutes", "Status",
}

type reportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loc *time.Location
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		loc:                  loc,
	}
}

// ExportAttendance implements report.ReportService.
func (s *reportServiceImpl) ExportAttendance(ctx context.Context, req report.AttendanceExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasPermission(caller.Role, user.PermissionAttendanceExport) {
		return user.ErrInsufficientPermissions
	}

	rows, err := s.attendanceRows(ctx, caller.CompanyID, req)
	if err != nil {
		return err
	}

	return writeAttendanceWorkbook(rows, w)
}

func (s *reportServiceImpl) attendanceRows(ctx context.Context, companyID string, req report.AttendanceExportRequest) ([]report.AttendanceRow, error) {
	start, end := req.Range(s.loc)
	filter := attendance.EntryFilter{CompanyID: companyID, StartDate: &start, EndDate: &end}
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		filter.EmployeeIDs = []string{*req.EmployeeID}
	}

	entries, err := s.AttendanceRepository.FindEntriesInRange(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	dir := employee.NewDirectory(employees)

	rows := make([]report.AttendanceRow, 0, len(entries))
	for _, e := range entries {
		row := report.AttendanceRow{
			Date:           e.Date,
			WorkingMinutes: e.TotalWorkingHours,
			BreakMinutes:   e.TotalBreakTime,
			LateMinutes:    e.LateMinutes,
			Overtime:       e.Overtime,
			Status:         string(e.Status),
		}
		if e.EmployeeCode != nil {
			row.EmployeeCode = *e.EmployeeCode
		}
		if e.EmployeeName != nil {
			row.EmployeeName = *e.EmployeeName
		}
		if emp, ok := dir[e.EmployeeID]; ok && emp.Department != nil {
			row.Department = *emp.Department
		}
		if e.CheckIn != nil {
			t := e.CheckIn.Time.In(s.loc)
			row.CheckIn = &t
		}
		if e.CheckOut != nil {
			t := e.CheckOut.Time.In(s.loc)
			row.CheckOut = &t
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeAttendanceWorkbook(rows []report.AttendanceRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	for i, header := range attendanceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(attendanceSheet, cell, header); err != nil {
			return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
	}

	for r, row := range rows {
		values := []interface{}{
			row.EmployeeCode,
			row.EmployeeName,
			row.Department,
			row.Date.Format("2006-01-02"),
			clockValue(row.CheckIn),
			clockValue(row.CheckOut),
			row.WorkingMinutes,
			row.BreakMinutes,
			row.LateMinutes,
			row.Overtime,
			row.Status,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(attendanceSheet, cell, &values); err != nil {
			return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return nil
}

func clockValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
