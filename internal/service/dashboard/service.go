package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		loc:                  loc,
		now:                  time.Now,
	}
}

// GetOverview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetOverview(ctx context.Context) (dashboard.OverviewResponse, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return dashboard.OverviewResponse{}, err
	}
	if !user.HasPermission(caller.Role, user.PermissionDashboardView) {
		return dashboard.OverviewResponse{}, user.ErrInsufficientPermissions
	}

	now := s.now().In(s.loc)
	today := attendance.StartOfDay(now, s.loc)

	var (
		entries   []attendance.Entry
		employees []employee.Employee
		total     int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's ledger entries
	g.Go(func() error {
		result, err := s.AttendanceRepository.FindEntriesInRange(gCtx, attendance.EntryFilter{
			CompanyID: caller.CompanyID,
			StartDate: &today,
			EndDate:   &today,
		})
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}
		entries = result
		return nil
	})

	// 2. Employee directory for department grouping
	g.Go(func() error {
		result, err := s.EmployeeRepository.GetActiveByCompanyID(gCtx, caller.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		employees = result
		return nil
	})

	// 3. Headcount
	g.Go(func() error {
		count, err := s.EmployeeRepository.CountActiveByCompanyID(gCtx, caller.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		total = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.OverviewResponse{}, err
	}

	overview, anomalies := dashboard.BuildDailyOverview(entries, employee.NewDirectory(employees), int(total), now)
	overview.Date = today.Format("2006-01-02")
	if anomalies.UnresolvedEmployees > 0 || anomalies.MissingDepartment > 0 {
		slog.Warn("Dashboard overview skipped entries",
			"company_id", caller.CompanyID,
			"date", today.Format("2006-01-02"),
			"unresolved_employees", anomalies.UnresolvedEmployees,
			"missing_department", anomalies.MissingDepartment,
		)
	}

	return overview, nil
}
