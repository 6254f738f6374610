package payroll

import (
	"github.com/shopspring/decimal"
)

// Settings are the per-minute rates applied to attendance.
type Settings struct {
	LateDeductionEnabled   bool
	LateDeductionPerMinute decimal.Decimal
	OvertimeEnabled        bool
	OvertimePayPerMinute   decimal.Decimal
}

// NewSettings enables each rate that is positive.
func NewSettings(overtimePayPerMinute, lateDeductionPerMinute decimal.Decimal) Settings {
	return Settings{
		LateDeductionEnabled:   lateDeductionPerMinute.IsPositive(),
		LateDeductionPerMinute: lateDeductionPerMinute,
		OvertimeEnabled:        overtimePayPerMinute.IsPositive(),
		OvertimePayPerMinute:   overtimePayPerMinute,
	}
}

// PeriodSummary rolls up an employee's entries over a pay period.
// Minute totals are whole minutes.
type PeriodSummary struct {
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	AbsentDays           int     `json:"absentDays"`
	LateDays             int     `json:"lateDays"`
	TotalWorkingHours    int     `json:"totalWorkingHours"`
	AverageWorkingHours  float64 `json:"averageWorkingHours"`
	TotalBreakMinutes    int     `json:"totalBreakMinutes"`
	TotalLateMinutes     int     `json:"totalLateMinutes"`
	TotalOvertimeMinutes int     `json:"totalOvertimeMinutes"`
}

// AttendancePay is the pay effect of a PeriodSummary.
type AttendancePay struct {
	OvertimeAmount      decimal.Decimal `json:"overtimeAmount"`
	LateDeductionAmount decimal.Decimal `json:"lateDeductionAmount"`
	NetAdjustment       decimal.Decimal `json:"netAdjustment"`
}
