package schedule

import "context"

// PolicyResolver looks up the shift window for an employee. A nil policy is a
// normal outcome and means lateness and overtime are not computed.
type PolicyResolver interface {
	Resolve(ctx context.Context, companyID, employeeID string) *ShiftPolicy
}
