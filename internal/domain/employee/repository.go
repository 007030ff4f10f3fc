package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	// Delete soft deletes an employee
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	GetActive(ctx context.Context) ([]Employee, error)
	CountByDepartment(ctx context.Context, departmentID string) (int64, error)
	// CountByCodePrefix counts codes starting with prefix, including deleted employees
	CountByCodePrefix(ctx context.Context, prefix string) (int, error)
}
