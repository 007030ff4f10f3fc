package department

import "context"

type DepartmentRepository interface {
	// Create fails with ErrDepartmentNameExists on a duplicate name
	Create(ctx context.Context, dept Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	// List returns every department with its active employee count, ordered by name
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, dept Department) (Department, error)
	Delete(ctx context.Context, id string) error
}
