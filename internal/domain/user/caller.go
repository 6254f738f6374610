package user

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// CallerFromContext reads the caller identity from the verified JWT claims.
func CallerFromContext(ctx context.Context) (Caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Caller{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Caller{}, ErrCompanyIDRequired
	}

	caller := Caller{CompanyID: companyID}
	caller.UserID, _ = claims["user_id"].(string)
	caller.EmployeeID, _ = claims["employee_id"].(string)
	if role, ok := claims["role"].(string); ok {
		caller.Role = Role(role)
	}

	return caller, nil
}

// EmployeeCallerFromContext is CallerFromContext for operations that act on
// the caller's own attendance.
func EmployeeCallerFromContext(ctx context.Context) (Caller, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return Caller{}, err
	}
	if caller.EmployeeID == "" {
		return Caller{}, ErrEmployeeIDRequired
	}
	return caller, nil
}
