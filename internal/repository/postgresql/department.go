package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepository struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create implements department.DepartmentRepository.
func (r *departmentRepository) Create(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to generate department id: %w", err)
	}
	dept.ID = id.String()

	err = q.QueryRow(ctx, `
		INSERT INTO departments (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, dept.ID, dept.Name, dept.Description).Scan(&dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "departments_name_key") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}

	return dept, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	var dept department.Department
	err := q.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM departments
		WHERE id = $1
	`, id).Scan(&dept.ID, &dept.Name, &dept.Description, &dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}

	return dept, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepository) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT d.id, d.name, d.description, d.created_at, d.updated_at,
			   COUNT(e.id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id AND e.deleted_at IS NULL
		GROUP BY d.id
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		var dept department.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.CreatedAt, &dept.UpdatedAt, &dept.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return departments, nil
}

// Update implements department.DepartmentRepository.
func (r *departmentRepository) Update(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		UPDATE departments
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, dept.ID, dept.Name, dept.Description).Scan(&dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		if database.IsUniqueViolation(err, "departments_name_key") {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to update department: %w", err)
	}

	return dept, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}
