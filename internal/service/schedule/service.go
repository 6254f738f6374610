package schedule

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

type policyResolverImpl struct {
	employeeRepo employee.EmployeeRepository
}

// Resolve implements schedule.PolicyResolver. Lookup failures and malformed
// clocks are logged and treated as no policy.
func (p *policyResolverImpl) Resolve(ctx context.Context, companyID, employeeID string) *schedule.ShiftPolicy {
	emp, err := p.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		slog.Warn("Shift policy lookup failed, lateness and overtime skipped",
			"employee_id", employeeID, "company_id", companyID, "error", err)
		return nil
	}

	policy := schedule.ShiftPolicy{
		StartTime: validClock(emp.ShiftStartTime, employeeID, "shift_start_time"),
		EndTime:   validClock(emp.ShiftEndTime, employeeID, "shift_end_time"),
	}
	if policy.StartTime == nil && policy.EndTime == nil {
		return nil
	}
	return &policy
}

func validClock(clock *string, employeeID, field string) *string {
	if clock == nil || *clock == "" {
		return nil
	}
	if !validator.IsValidClock(*clock) {
		slog.Warn("Ignoring malformed shift time",
			"employee_id", employeeID, "field", field, "value", *clock, "error", schedule.ErrMalformedShiftTime)
		return nil
	}
	return clock
}

func NewPolicyResolver(employeeRepo employee.EmployeeRepository) schedule.PolicyResolver {
	return &policyResolverImpl{employeeRepo: employeeRepo}
}
