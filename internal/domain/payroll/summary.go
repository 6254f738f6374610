package payroll

import (
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// Summarize computes the period summary of entries.
func Summarize(entries []attendance.Entry) PeriodSummary {
	var s PeriodSummary
	s.TotalDays = len(entries)

	for _, e := range entries {
		switch e.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		}
		if e.IsLate {
			s.LateDays++
		}
		s.TotalWorkingHours += e.TotalWorkingHours
		s.TotalBreakMinutes += e.TotalBreakTime
		s.TotalLateMinutes += e.LateMinutes
		s.TotalOvertimeMinutes += e.Overtime
	}

	if s.PresentDays > 0 {
		s.AverageWorkingHours = decimal.NewFromInt(int64(s.TotalWorkingHours)).
			Div(decimal.NewFromInt(int64(s.PresentDays))).
			Round(2).
			InexactFloat64()
	}

	return s
}

// CalculateAttendancePay prices overtime and lateness with settings.
func CalculateAttendancePay(s PeriodSummary, settings Settings) AttendancePay {
	overtime := decimal.Zero
	if settings.OvertimeEnabled {
		overtime = decimal.NewFromInt(int64(s.TotalOvertimeMinutes)).Mul(settings.OvertimePayPerMinute)
	}

	late := decimal.Zero
	if settings.LateDeductionEnabled {
		late = decimal.NewFromInt(int64(s.TotalLateMinutes)).Mul(settings.LateDeductionPerMinute)
	}

	return AttendancePay{
		OvertimeAmount:      overtime,
		LateDeductionAmount: late,
		NetAdjustment:       overtime.Sub(late),
	}
}
