package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository(employees ...employee.Employee) *EmployeeRepository {
	r := &EmployeeRepository{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		if e.ID == "" {
			e.ID = uuid.Must(uuid.NewV7()).String()
		}
		if e.EmploymentStatus == "" {
			e.EmploymentStatus = employee.EmploymentStatusActive
		}
		r.employees[e.ID] = e
	}
	return r
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok || e.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if e.UserID != nil && *e.UserID == userID && e.DeletedAt == nil {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if strings.EqualFold(existing.Email, e.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	now := time.Now()
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	e.CreatedAt, e.UpdatedAt = now, now
	r.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.employees[e.ID]
	if !ok || current.DeletedAt != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	for id, existing := range r.employees {
		if id != e.ID && strings.EqualFold(existing.Email, e.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	e.UpdatedAt = time.Now()
	r.employees[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok || e.DeletedAt != nil {
		return employee.ErrEmployeeNotFound
	}
	now := time.Now()
	e.DeletedAt = &now
	r.employees[id] = e
	return nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	var matched []employee.Employee
	for _, e := range r.employees {
		if e.DeletedAt != nil {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(*filter.Search)) {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.EmploymentStatus != nil && string(e.EmploymentStatus) != *filter.EmploymentStatus {
			continue
		}
		matched = append(matched, e)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].EmployeeCode < matched[j].EmployeeCode })
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *EmployeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []employee.Employee
	for _, e := range r.employees {
		if e.DeletedAt == nil && e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *EmployeeRepository) CountByDepartment(ctx context.Context, departmentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, e := range r.employees {
		if e.DeletedAt == nil && e.DepartmentID != nil && *e.DepartmentID == departmentID {
			n++
		}
	}
	return n, nil
}

func (r *EmployeeRepository) CountByCodePrefix(ctx context.Context, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.employees {
		if strings.HasPrefix(e.EmployeeCode, prefix) {
			n++
		}
	}
	return n, nil
}
