package attendance

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	Statuses   = []string{StatusPending, StatusApproved, StatusRejected}
	LeaveTypes = []string{"annual", "sick", "maternity", "bereavement", "unpaid"}
)

// Attendance is one employee's record for one calendar date.
// Derived fields stay nil while the timestamp they depend on is missing.
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckIn          *time.Time
	CheckOut         *time.Time
	Status           string
	IsLate           *bool
	IsEarlyDeparture *bool
	IsLeave          bool
	LeaveType        *string
	LeaveDays        *float64
	LeaveReason      *string
	OvertimeHours    *float64
	OvertimeStart    *string
	OvertimeEnd      *string
	OvertimeReason   *string
	Note             *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
	DepartmentID *string
}

// MonthlySummary folds one employee's records for one month.
type MonthlySummary struct {
	WorkDays           int     `json:"work_days"`
	LeaveDays          float64 `json:"leave_days"`
	AbsentDays         int     `json:"absent_days"`
	LateDays           int     `json:"late_days"`
	EarlyDepartureDays int     `json:"early_departure_days"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}
