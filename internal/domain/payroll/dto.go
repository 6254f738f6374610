package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceSummaryRequest struct {
	PeriodMonth int     `json:"period_month"`
	PeriodYear  int     `json:"period_year"`
	EmployeeID  *string `json:"employee_id,omitempty"`
}

func (r *AttendanceSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs.Add("period_month", "period_month must be between 1 and 12")
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs.Add("period_year", "period_year must be between 2000 and 2100")
	}

	return errs.Err()
}

// Bounds returns the first and last calendar day of the period in loc.
func (r AttendanceSummaryRequest) Bounds(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(r.PeriodYear, time.Month(r.PeriodMonth), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, -1)
}

type EmployeeAttendanceSummary struct {
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	EmployeeCode string           `json:"employee_code"`
	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	Summary      PeriodSummary    `json:"summary"`
	Pay          AttendancePay    `json:"pay"`
}

type AttendanceSummaryResponse struct {
	PeriodMonth int                         `json:"period_month"`
	PeriodYear  int                         `json:"period_year"`
	StartDate   string                      `json:"start_date"`
	EndDate     string                      `json:"end_date"`
	Company     PeriodSummary               `json:"company"`
	Employees   []EmployeeAttendanceSummary `json:"employees"`
}
