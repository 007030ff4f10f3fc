package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
)

type DepartmentRepository struct {
	mu          sync.Mutex
	departments map[string]department.Department
}

func NewDepartmentRepository(departments ...department.Department) *DepartmentRepository {
	r := &DepartmentRepository{departments: make(map[string]department.Department)}
	for _, d := range departments {
		if d.ID == "" {
			d.ID = uuid.Must(uuid.NewV7()).String()
		}
		r.departments[d.ID] = d
	}
	return r
}

func (r *DepartmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.departments {
		if strings.EqualFold(existing.Name, d.Name) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}
	now := time.Now()
	d.ID = uuid.Must(uuid.NewV7()).String()
	d.CreatedAt, d.UpdatedAt = now, now
	r.departments[d.ID] = d
	return d, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]department.Department, 0, len(r.departments))
	for _, d := range r.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.departments[d.ID]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	for id, existing := range r.departments {
		if id != d.ID && strings.EqualFold(existing.Name, d.Name) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}
	d.CreatedAt = current.CreatedAt
	d.UpdatedAt = time.Now()
	r.departments[d.ID] = d
	return d, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.departments[id]; !ok {
		return department.ErrDepartmentNotFound
	}
	delete(r.departments, id)
	return nil
}
