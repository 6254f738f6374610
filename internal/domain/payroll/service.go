package payroll

import "context"

type PayrollService interface {
	// GetAttendanceSummary summarizes attendance per employee for a month and
	// prices overtime and lateness.
	GetAttendanceSummary(ctx context.Context, req AttendanceSummaryRequest) (AttendanceSummaryResponse, error)
}
