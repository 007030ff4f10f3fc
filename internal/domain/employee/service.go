package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee, and a login account when a password is given
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee soft deletes an employee
	DeleteEmployee(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
