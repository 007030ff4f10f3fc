package department

import (
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateDepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return validator.Struct(r)
}

type DepartmentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	EmployeeCount int64   `json:"employee_count"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}
