package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR / payroll administrator
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
