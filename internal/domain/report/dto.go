package report

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

// MaxExportDays bounds the export window.
const MaxExportDays = 366

// ========================================
// ATTENDANCE EXPORT
// ========================================

type AttendanceExportRequest struct {
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD
	EmployeeID *string `json:"employee_id,omitempty"`

	start time.Time
	end   time.Time
}

func (r *AttendanceExportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, ok := validator.IsValidDate(r.EndDate)
	if !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if len(errs) > 0 {
		return errs
	}

	if end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	} else if end.Sub(start) > MaxExportDays*24*time.Hour {
		errs.Add("end_date", "export range must not exceed 366 days")
	}

	r.start, r.end = start, end
	return errs.Err()
}

// Range returns the validated window as local midnights in loc.
func (r *AttendanceExportRequest) Range(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	in := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	return in(r.start), in(r.end)
}

// Filename names the workbook after its window.
func (r *AttendanceExportRequest) Filename() string {
	return "attendance_" + r.StartDate + "_" + r.EndDate + ".xlsx"
}

// AttendanceRow is one line of the export.
type AttendanceRow struct {
	EmployeeCode   string
	EmployeeName   string
	Department     string
	Date           time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	WorkingMinutes int
	BreakMinutes   int
	LateMinutes    int
	Overtime       int
	Status         string
}
