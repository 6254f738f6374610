package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/google/uuid"
)

// EmployeeRepository is an in-process employee directory.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

var _ employee.EmployeeRepository = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) lookup(id string) (employee.Employee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	return emp, ok
}

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := r.lookup(id)
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var employees []employee.Employee
	for _, emp := range r.employees {
		if emp.CompanyID == companyID && emp.EmploymentStatus == employee.EmploymentStatusActive {
			employees = append(employees, emp)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].FullName < employees[j].FullName
	})
	return employees, nil
}

// CountActiveByCompanyID implements employee.EmployeeRepository.
func (r *EmployeeRepository) CountActiveByCompanyID(ctx context.Context, companyID string) (int64, error) {
	employees, err := r.GetActiveByCompanyID(ctx, companyID)
	return int64(len(employees)), err
}

// Create implements employee.EmployeeRepository.
func (r *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, emp := range r.employees {
		if emp.CompanyID == newEmployee.CompanyID && emp.EmployeeCode == newEmployee.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.New().String()
	}
	if newEmployee.EmploymentStatus == "" {
		newEmployee.EmploymentStatus = employee.EmploymentStatusActive
	}
	now := time.Now()
	newEmployee.CreatedAt, newEmployee.UpdatedAt = now, now

	r.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}
