package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// user_id lives on users.employee_id and is joined in.
const employeeColumns = `
	e.id, u.id, e.department_id, e.employee_code, e.full_name, e.email, e.position,
	e.hire_date, e.employment_status, e.base_salary, e.work_start, e.work_end,
	e.bank_name, e.bank_account_number, e.created_at, e.updated_at, e.deleted_at,
	d.name`

const employeeFrom = `
	FROM employees e
	LEFT JOIN users u ON u.employee_id = e.id
	LEFT JOIN departments d ON d.id = e.department_id`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.DepartmentID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Position,
		&emp.HireDate, &emp.EmploymentStatus, &emp.BaseSalary, &emp.WorkStart, &emp.WorkEnd,
		&emp.BankName, &emp.BankAccountNumber, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		&emp.DepartmentName,
	)
	return emp, err
}

func employeeWriteError(err error, action string) error {
	switch {
	case database.IsUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	case database.IsUniqueViolation(err, "employees_email_key"):
		return employee.ErrEmailExists
	}
	return fmt.Errorf("failed to %s employee: %w", action, err)
}

func (e *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + employeeFrom + `
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + employeeFrom + `
		WHERE u.id = $1 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user id: %w", err)
	}
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}
	newEmployee.ID = id.String()
	if newEmployee.EmploymentStatus == "" {
		newEmployee.EmploymentStatus = employee.EmploymentStatusActive
	}

	query := `
		INSERT INTO employees (
			id, department_id, employee_code, full_name, email, position,
			hire_date, employment_status, base_salary, work_start, work_end,
			bank_name, bank_account_number
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.DepartmentID, newEmployee.EmployeeCode, newEmployee.FullName,
		newEmployee.Email, newEmployee.Position, newEmployee.HireDate, newEmployee.EmploymentStatus,
		newEmployee.BaseSalary, newEmployee.WorkStart, newEmployee.WorkEnd,
		newEmployee.BankName, newEmployee.BankAccountNumber,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, employeeWriteError(err, "create")
	}

	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			department_id = $2, full_name = $3, email = $4, position = $5,
			hire_date = $6, employment_status = $7, base_salary = $8,
			work_start = $9, work_end = $10, bank_name = $11, bank_account_number = $12,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.DepartmentID, emp.FullName, emp.Email, emp.Position,
		emp.HireDate, emp.EmploymentStatus, emp.BaseSalary,
		emp.WorkStart, emp.WorkEnd, emp.BankName, emp.BankAccountNumber,
	).Scan(&emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, employeeWriteError(err, "update")
	}

	return emp, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	baseWhere := "e.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.EmploymentStatus != nil && *filter.EmploymentStatus != "" {
		baseWhere += fmt.Sprintf(" AND e.employment_status = $%d", argIdx)
		args = append(args, *filter.EmploymentStatus)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees e WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := max(filter.Page, 1)
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY e.employee_code
		LIMIT $%d OFFSET $%d
	`, employeeColumns, employeeFrom, baseWhere, argIdx, argIdx+1)

	employees, err := e.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// GetActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + employeeFrom + `
		WHERE e.employment_status = $1 AND e.deleted_at IS NULL
		ORDER BY e.employee_code
	`
	return e.queryEmployees(ctx, query, employee.EmploymentStatusActive)
}

// CountByDepartment implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByDepartment(ctx context.Context, departmentID string) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE department_id = $1 AND deleted_at IS NULL`, departmentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees by department: %w", err)
	}
	return n, nil
}

// CountByCodePrefix implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByCodePrefix(ctx context.Context, prefix string) (int, error) {
	q := GetQuerier(ctx, e.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE employee_code LIKE $1 || '%'`, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count employee codes: %w", err)
	}
	return n, nil
}
