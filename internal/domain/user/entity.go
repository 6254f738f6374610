package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Reviews and corrects attendance
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Caller is the already-authenticated identity attached to a request.
type Caller struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}

// IsManager checks if caller is manager or owner
func (c Caller) IsManager() bool {
	return c.Role == RoleManager || c.Role == RoleOwner
}
