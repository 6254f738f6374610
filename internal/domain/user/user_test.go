package user

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithClaims(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCallerFromContext(t *testing.T) {
	ctx := contextWithClaims(t, map[string]interface{}{
		"user_id":     "u-1",
		"employee_id": "e-1",
		"company_id":  "c-1",
		"role":        "manager",
	})

	caller, err := CallerFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Caller{UserID: "u-1", EmployeeID: "e-1", CompanyID: "c-1", Role: RoleManager}, caller)
	assert.True(t, caller.IsManager())
}

func TestCallerFromContext_MissingCompany(t *testing.T) {
	ctx := contextWithClaims(t, map[string]interface{}{"user_id": "u-1"})
	_, err := CallerFromContext(ctx)
	assert.ErrorIs(t, err, ErrCompanyIDRequired)
}

func TestEmployeeCallerFromContext_RequiresEmployee(t *testing.T) {
	ctx := contextWithClaims(t, map[string]interface{}{"company_id": "c-1", "role": "owner"})
	_, err := EmployeeCallerFromContext(ctx)
	assert.ErrorIs(t, err, ErrEmployeeIDRequired)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionPayrollView))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollView))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceViewAll))
	assert.False(t, HasPermission(RolePending, PermissionAttendanceCreate))
	assert.False(t, HasPermission(Role("ghost"), PermissionAttendanceCreate))
}
