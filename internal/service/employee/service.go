package employee

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

// codeAttempts bounds retries when two creations race for the same code.
const codeAttempts = 3

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	userRepo       user.UserRepository
	now            func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	userRepo user.UserRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:                emp.ID,
		UserID:            emp.UserID,
		EmployeeCode:      emp.EmployeeCode,
		FullName:          emp.FullName,
		Email:             emp.Email,
		DepartmentID:      emp.DepartmentID,
		DepartmentName:    emp.DepartmentName,
		Position:          emp.Position,
		HireDate:          emp.HireDate.Format("2006-01-02"),
		EmploymentStatus:  string(emp.EmploymentStatus),
		BaseSalary:        emp.BaseSalary,
		WorkStart:         emp.WorkStart,
		WorkEnd:           emp.WorkEnd,
		BankName:          emp.BankName,
		BankAccountNumber: emp.BankAccountNumber,
		CreatedAt:         emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// checkWorkHours rejects an end that is not after the start. HH:MM strings compare in order.
func checkWorkHours(start, end *string) error {
	if start != nil && end != nil && *end <= *start {
		return employee.ErrInvalidWorkHours
	}
	return nil
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := s.departmentRepo.GetByID(ctx, *id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to get department: %w", err)
	}
	return nil
}

// nextEmployeeCode returns EMP<yy><seq>, numbering from the codes already issued this year.
func (s *EmployeeServiceImpl) nextEmployeeCode(ctx context.Context, offset int) (string, error) {
	prefix := fmt.Sprintf("EMP%02d", s.now().Year()%100)
	n, err := s.employeeRepo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count employee codes: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, n+1+offset), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return mapEmployeeToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := checkWorkHours(req.WorkStart, req.WorkEnd); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var passwordHash *string
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	hireDate, _ := time.Parse("2006-01-02", req.HireDate)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	newEmployee := employee.Employee{
		DepartmentID:      req.DepartmentID,
		FullName:          strings.TrimSpace(req.FullName),
		Email:             email,
		Position:          req.Position,
		HireDate:          hireDate,
		EmploymentStatus:  employee.EmploymentStatusActive,
		BaseSalary:        req.BaseSalary,
		WorkStart:         req.WorkStart,
		WorkEnd:           req.WorkEnd,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
	}

	var created employee.Employee
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := s.nextEmployeeCode(ctx, attempt)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		newEmployee.EmployeeCode = code

		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			emp, err := s.employeeRepo.Create(ctx, newEmployee)
			if err != nil {
				return err
			}

			if passwordHash != nil {
				u, err := s.userRepo.Create(ctx, user.User{
					Email:        email,
					PasswordHash: passwordHash,
					Role:         user.RoleEmployee,
					EmployeeID:   &emp.ID,
				})
				if err != nil {
					return err
				}
				emp.UserID = &u.ID
			}

			created = emp
			return nil
		})
		if errors.Is(err, employee.ErrEmployeeCodeExists) {
			continue
		}
		if err != nil {
			if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, user.ErrUserEmailExists) {
				return employee.EmployeeResponse{}, employee.ErrEmailExists
			}
			return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
		}
		return mapEmployeeToResponse(created), nil
	}

	return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		emp.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		emp.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			emp.DepartmentID = nil
		} else {
			emp.DepartmentID = req.DepartmentID
		}
	}
	if req.Position != nil {
		emp.Position = req.Position
	}
	if req.HireDate != nil {
		emp.HireDate, _ = time.Parse("2006-01-02", *req.HireDate)
	}
	if req.EmploymentStatus != nil {
		emp.EmploymentStatus = employee.EmploymentStatus(*req.EmploymentStatus)
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
	}
	if req.WorkStart != nil {
		emp.WorkStart = req.WorkStart
	}
	if req.WorkEnd != nil {
		emp.WorkEnd = req.WorkEnd
	}
	if req.BankName != nil {
		emp.BankName = req.BankName
	}
	if req.BankAccountNumber != nil {
		emp.BankAccountNumber = req.BankAccountNumber
	}

	if err := checkWorkHours(emp.WorkStart, emp.WorkEnd); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return mapEmployeeToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}
