package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	CountActiveByCompanyID(ctx context.Context, companyID string) (int64, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
}
