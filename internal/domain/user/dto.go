package user

import (
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

var Roles = []string{string(RoleAdmin), string(RoleEmployee)}

type UserFilter struct {
	Role *string `json:"role,omitempty"`
}

func (f *UserFilter) Validate() error {
	if f.Role != nil && !validator.IsInSlice(*f.Role, Roles) {
		return validator.ValidationErrors{{Field: "role", Message: "role must be one of: " + strings.Join(Roles, ", ")}}
	}
	return nil
}

// UpdateUserRequest changes the login email or role of an account.
type UpdateUserRequest struct {
	ID    string  `json:"-"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Role  *string `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
	return validator.Struct(r)
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  u.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
