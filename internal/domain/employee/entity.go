package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the directory record the attendance core reads: department and
// location for holiday applicability and dashboard grouping, plus the shift window.
type Employee struct {
	ID               string
	UserID           *string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	Department       *string
	Location         *string
	ShiftStartTime   *string // HH:mm
	ShiftEndTime     *string // HH:mm
	BaseSalary       *decimal.Decimal
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Directory indexes employees by ID for aggregation lookups.
type Directory map[string]Employee

// NewDirectory builds a Directory from a list.
func NewDirectory(employees []Employee) Directory {
	dir := make(Directory, len(employees))
	for _, e := range employees {
		dir[e.ID] = e
	}
	return dir
}
