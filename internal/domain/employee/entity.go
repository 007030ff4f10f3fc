package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                string
	UserID            *string
	DepartmentID      *string
	EmployeeCode      string
	FullName          string
	Email             string
	Position          *string
	HireDate          time.Time
	EmploymentStatus  EmploymentStatus
	BaseSalary        decimal.Decimal
	WorkStart         *string // HH:MM, overrides the organisation policy
	WorkEnd           *string
	BankName          *string
	BankAccountNumber *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time

	// Joined fields
	DepartmentName *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

var EmploymentStatuses = []string{
	string(EmploymentStatusActive),
	string(EmploymentStatusResigned),
	string(EmploymentStatusTerminated),
}
