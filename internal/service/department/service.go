package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
)

type DepartmentServiceImpl struct {
	departmentRepo department.DepartmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewDepartmentService(departmentRepo department.DepartmentRepository, employeeRepo employee.EmployeeRepository) department.DepartmentService {
	return &DepartmentServiceImpl{
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
	}
}

func mapDepartmentToResponse(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		EmployeeCount: d.EmployeeCount,
		CreatedAt:     d.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     d.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNameExists) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return mapDepartmentToResponse(created), nil
}

// GetDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) GetDepartment(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.DepartmentResponse{}, department.ErrDepartmentNotFound
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to get department: %w", err)
	}

	count, err := s.employeeRepo.CountByDepartment(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to count employees: %w", err)
	}
	d.EmployeeCount = count

	return mapDepartmentToResponse(d), nil
}

// ListDepartments implements department.DepartmentService.
func (s *DepartmentServiceImpl) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, mapDepartmentToResponse(d))
	}
	return responses, nil
}

// UpdateDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	d, err := s.departmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.DepartmentResponse{}, department.ErrDepartmentNotFound
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to get department: %w", err)
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = req.Description
	}

	updated, err := s.departmentRepo.Update(ctx, d)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNameExists) {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to update department: %w", err)
	}

	return mapDepartmentToResponse(updated), nil
}

// DeleteDepartment implements department.DepartmentService.
func (s *DepartmentServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to get department: %w", err)
	}

	count, err := s.employeeRepo.CountByDepartment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}
	if count > 0 {
		return department.ErrDepartmentHasEmployees
	}

	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}
