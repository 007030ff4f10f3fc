package employee

import (
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FullName          string          `json:"full_name" validate:"required,max=255"`
	Email             string          `json:"email" validate:"required,email"`
	Password          *string         `json:"password,omitempty" validate:"omitempty,min=8,max=255"`
	DepartmentID      *string         `json:"department_id,omitempty"`
	Position          *string         `json:"position,omitempty" validate:"omitempty,max=100"`
	HireDate          string          `json:"hire_date" validate:"required"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	WorkStart         *string         `json:"work_start,omitempty"`
	WorkEnd           *string         `json:"work_end,omitempty"`
	BankName          *string         `json:"bank_name,omitempty"`
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
}

// Normalize trims the name and folds the email to lower case.
func (r *CreateEmployeeRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Normalize()
	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, structErrs...)
	}

	if r.HireDate != "" {
		if _, valid := validator.IsValidDate(r.HireDate); !valid {
			errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
		}
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must not be negative"})
	}
	if !validator.HasMaxDecimals(r.BaseSalary, 2) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must have at most 2 decimal places"})
	}
	errs = append(errs, validateWorkHours(r.WorkStart, r.WorkEnd)...)

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID                string           `json:"-"`
	FullName          *string          `json:"full_name,omitempty"`
	Email             *string          `json:"email,omitempty"`
	DepartmentID      *string          `json:"department_id,omitempty"`
	Position          *string          `json:"position,omitempty"`
	HireDate          *string          `json:"hire_date,omitempty"`
	EmploymentStatus  *string          `json:"employment_status,omitempty"`
	BaseSalary        *decimal.Decimal `json:"base_salary,omitempty"`
	WorkStart         *string          `json:"work_start,omitempty"`
	WorkEnd           *string          `json:"work_end,omitempty"`
	BankName          *string          `json:"bank_name,omitempty"`
	BankAccountNumber *string          `json:"bank_account_number,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		r.FullName = &name
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must not be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if r.HireDate != nil {
		if _, valid := validator.IsValidDate(*r.HireDate); !valid {
			errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
		}
	}
	if r.EmploymentStatus != nil && !validator.IsInSlice(*r.EmploymentStatus, EmploymentStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_status",
			Message: "employment_status must be one of: " + strings.Join(EmploymentStatuses, ", "),
		})
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must not be negative"})
	}
	if r.BaseSalary != nil && !validator.HasMaxDecimals(*r.BaseSalary, 2) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must have at most 2 decimal places"})
	}
	errs = append(errs, validateWorkHours(r.WorkStart, r.WorkEnd)...)

	return errs.OrNil()
}

func validateWorkHours(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if start != nil && !validator.IsValidClock(*start) {
		errs = append(errs, validator.ValidationError{Field: "work_start", Message: "work_start must be in HH:MM format"})
	}
	if end != nil && !validator.IsValidClock(*end) {
		errs = append(errs, validator.ValidationError{Field: "work_end", Message: "work_end must be in HH:MM format"})
	}

	return errs
}

type EmployeeFilter struct {
	Search           *string `json:"search,omitempty"`
	DepartmentID     *string `json:"department_id,omitempty"`
	EmploymentStatus *string `json:"employment_status,omitempty"`
	Page             int     `json:"page"`
	Limit            int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.EmploymentStatus != nil && !validator.IsInSlice(*f.EmploymentStatus, EmploymentStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_status",
			Message: "employment_status must be one of: " + strings.Join(EmploymentStatuses, ", "),
		})
	}

	return errs.OrNil()
}

type EmployeeResponse struct {
	ID                string          `json:"id"`
	UserID            *string         `json:"user_id,omitempty"`
	EmployeeCode      string          `json:"employee_code"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	DepartmentID      *string         `json:"department_id,omitempty"`
	DepartmentName    *string         `json:"department_name,omitempty"`
	Position          *string         `json:"position,omitempty"`
	HireDate          string          `json:"hire_date"`
	EmploymentStatus  string          `json:"employment_status"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	WorkStart         *string         `json:"work_start,omitempty"`
	WorkEnd           *string         `json:"work_end,omitempty"`
	BankName          *string         `json:"bank_name,omitempty"`
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
