package report

import (
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// ========================================
// DEPARTMENT ROLLUP REPORT
// ========================================

type DepartmentRollupRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *DepartmentRollupRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	return errs.OrNil()
}

// UnassignedDepartment is the rollup bucket for employees without a department.
const UnassignedDepartment = "unassigned"

// DepartmentSummary totals one department's attendance for a month.
type DepartmentSummary struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	EmployeeCount  int     `json:"employee_count"`
	DaysPresent    int     `json:"days_present"`
	DaysAbsent     int     `json:"days_absent"`
	DaysOnLeave    float64 `json:"days_on_leave"`
	OvertimeHours  float64 `json:"overtime_hours"`
}

type DepartmentRollupReport struct {
	PeriodMonth int                 `json:"period_month"`
	PeriodYear  int                 `json:"period_year"`
	GeneratedAt string              `json:"generated_at"`
	Departments []DepartmentSummary `json:"departments"`
}
