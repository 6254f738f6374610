package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextAs(t *testing.T, role user.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"company_id": "co-1", "role": string(role)})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestPayrollService_GetAttendanceSummary(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository()
	repo := memory.NewAttendanceRepository(employees)

	salary := decimal.NewFromInt(6000000)
	worker, err := employees.Create(ctx, employee.Employee{CompanyID: "co-1", EmployeeCode: "E1", FullName: "Worker", BaseSalary: &salary})
	require.NoError(t, err)
	idle, err := employees.Create(ctx, employee.Employee{CompanyID: "co-1", EmployeeCode: "E2", FullName: "Idle"})
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC) }
	for _, e := range []attendance.Entry{
		{EmployeeID: worker.ID, Date: day(1), TotalWorkingHours: 480, IsLate: true, LateMinutes: 10},
		{EmployeeID: worker.ID, Date: day(2), TotalWorkingHours: 500, Overtime: 60},
		{EmployeeID: worker.ID, Date: day(3), Status: attendance.StatusAbsent},
		// outside the period
		{EmployeeID: worker.ID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), TotalWorkingHours: 999},
	} {
		e.CompanyID = "co-1"
		_, err := repo.UpsertEntry(ctx, e)
		require.NoError(t, err)
	}

	settings := payroll.NewSettings(decimal.NewFromInt(1000), decimal.NewFromInt(500))
	svc := NewPayrollService(repo, employees, settings, time.UTC)

	resp, err := svc.GetAttendanceSummary(contextAs(t, user.RoleOwner), payroll.AttendanceSummaryRequest{PeriodMonth: 2, PeriodYear: 2024})
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", resp.StartDate)
	assert.Equal(t, "2024-02-29", resp.EndDate)
	assert.Equal(t, 3, resp.Company.TotalDays)
	assert.Equal(t, 980, resp.Company.TotalWorkingHours)

	require.Len(t, resp.Employees, 2)
	byID := map[string]payroll.EmployeeAttendanceSummary{}
	for _, s := range resp.Employees {
		byID[s.EmployeeID] = s
	}

	w := byID[worker.ID]
	assert.Equal(t, 2, w.Summary.PresentDays)
	assert.Equal(t, 1, w.Summary.AbsentDays)
	assert.Equal(t, 490.0, w.Summary.AverageWorkingHours)
	assert.True(t, decimal.NewFromInt(60000).Equal(w.Pay.OvertimeAmount))
	assert.True(t, decimal.NewFromInt(5000).Equal(w.Pay.LateDeductionAmount))
	assert.True(t, salary.Equal(*w.BaseSalary))

	i := byID[idle.ID]
	assert.Equal(t, 0, i.Summary.TotalDays)
	assert.Equal(t, 0.0, i.Summary.AverageWorkingHours)
}

func TestPayrollService_Errors(t *testing.T) {
	svc := NewPayrollService(memory.NewAttendanceRepository(nil), memory.NewEmployeeRepository(), payroll.Settings{}, time.UTC)

	_, err := svc.GetAttendanceSummary(contextAs(t, user.RoleManager), payroll.AttendanceSummaryRequest{PeriodMonth: 2, PeriodYear: 2024})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	missing := "missing"
	_, err = svc.GetAttendanceSummary(contextAs(t, user.RoleOwner), payroll.AttendanceSummaryRequest{PeriodMonth: 2, PeriodYear: 2024, EmployeeID: &missing})
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	_, err = svc.GetAttendanceSummary(contextAs(t, user.RoleOwner), payroll.AttendanceSummaryRequest{PeriodMonth: 13, PeriodYear: 2024})
	assert.Error(t, err)
}
