package attendance

import (
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Note       *string `json:"note,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	return errs.OrNil()
}

type CheckOutRequest struct {
	EmployeeID     string  `json:"employee_id"`
	OvertimeReason *string `json:"overtime_reason,omitempty"`
	Note           *string `json:"note,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	return errs.OrNil()
}

// CreateAttendanceRequest lets an admin record a day explicitly, including leave days.
type CreateAttendanceRequest struct {
	EmployeeID     string   `json:"employee_id" validate:"required"`
	Date           string   `json:"date" validate:"required"` // YYYY-MM-DD
	CheckInTime    *string  `json:"check_in_time,omitempty"`  // RFC3339
	CheckOutTime   *string  `json:"check_out_time,omitempty"` // RFC3339
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	IsLeave        bool     `json:"is_leave"`
	LeaveType      *string  `json:"leave_type,omitempty" validate:"omitempty,oneof=annual sick maternity bereavement unpaid"`
	LeaveDays      *float64 `json:"leave_days,omitempty" validate:"omitempty,gt=0"`
	LeaveReason    *string  `json:"leave_reason,omitempty"`
	OvertimeReason *string  `json:"overtime_reason,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, structErrs...)
	}

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	errs = append(errs, validateTimestamps(r.CheckInTime, r.CheckOutTime)...)

	errs = append(errs, ValidateLeaveType(r.IsLeave, r.LeaveType)...)
	if r.LeaveDays != nil && !validator.FloatHasMaxDecimals(*r.LeaveDays, 1) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_days",
			Message: "leave_days must have at most 1 decimal place",
		})
	}

	return errs.OrNil()
}

// UpdateAttendanceRequest for admin to fix an attendance record.
// Derived fields are recomputed after the update.
type UpdateAttendanceRequest struct {
	ID             string   `json:"-"`
	CheckInTime    *string  `json:"check_in_time,omitempty"`
	CheckOutTime   *string  `json:"check_out_time,omitempty"`
	Status         *string  `json:"status,omitempty"`
	IsLeave        *bool    `json:"is_leave,omitempty"`
	LeaveType      *string  `json:"leave_type,omitempty"`
	LeaveDays      *float64 `json:"leave_days,omitempty"`
	LeaveReason    *string  `json:"leave_reason,omitempty"`
	OvertimeReason *string  `json:"overtime_reason,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateTimestamps(r.CheckInTime, r.CheckOutTime)...)

	if r.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*r.Status))
		r.Status = &status
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(Statuses, ", "),
		})
	}

	if r.LeaveType != nil && !validator.IsInSlice(*r.LeaveType, LeaveTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: " + strings.Join(LeaveTypes, ", "),
		})
	}

	if r.LeaveDays != nil && *r.LeaveDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_days",
			Message: "leave_days must be a positive number",
		})
	}
	if r.LeaveDays != nil && !validator.FloatHasMaxDecimals(*r.LeaveDays, 1) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_days",
			Message: "leave_days must have at most 1 decimal place",
		})
	}

	return errs.OrNil()
}

// ValidateLeaveType checks that a leave type is present exactly when the day is a leave day.
func ValidateLeaveType(isLeave bool, leaveType *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if isLeave && leaveType == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required for a leave day",
		})
	}
	if !isLeave && leaveType != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is only allowed when is_leave is true",
		})
	}

	return errs
}

func validateTimestamps(checkIn, checkOut *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if checkIn != nil {
		if _, valid := validator.IsValidDateTime(*checkIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be an ISO8601 timestamp",
			})
		}
	}
	if checkOut != nil {
		if _, valid := validator.IsValidDateTime(*checkOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO8601 timestamp",
			})
		}
	}

	return errs
}

type AttendanceResponse struct {
	ID                  string   `json:"id"`
	EmployeeID          string   `json:"employee_id"`
	EmployeeName        *string  `json:"employee_name,omitempty"`
	Date                string   `json:"date"`
	CheckInTime         *string  `json:"check_in_time,omitempty"`
	CheckOutTime        *string  `json:"check_out_time,omitempty"`
	Status              string   `json:"status"`
	IsLate              *bool    `json:"is_late,omitempty"`
	IsEarlyDeparture    *bool    `json:"is_early_departure,omitempty"`
	IsLeave             bool     `json:"is_leave"`
	LeaveType           *string  `json:"leave_type,omitempty"`
	LeaveDays           *float64 `json:"leave_days,omitempty"`
	LeaveReason         *string  `json:"leave_reason,omitempty"`
	OvertimeHours       *float64 `json:"overtime_hours,omitempty"`
	OvertimeStart       *string  `json:"overtime_start,omitempty"`
	OvertimeEnd         *string  `json:"overtime_end,omitempty"`
	OvertimeReason      *string  `json:"overtime_reason,omitempty"`
	Note                *string  `json:"note,omitempty"`
	WorkingHours        *string  `json:"working_hours,omitempty"`
	WorkingHoursDecimal *float64 `json:"working_hours_decimal,omitempty"`
	Remarks             string   `json:"remarks"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	IsLeave    *bool   `json:"is_leave,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(Statuses, ", "),
		})
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "check_in_time", "check_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, check_in_time, check_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // newest first
	}

	return errs.OrNil()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type SummaryResponse struct {
	EmployeeID string               `json:"employee_id"`
	Month      int                  `json:"month"`
	Year       int                  `json:"year"`
	Summary    MonthlySummary       `json:"summary"`
	Records    []AttendanceResponse `json:"records"`
}

type MonthlyEmployeeRow struct {
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	DepartmentID       *string `json:"department_id,omitempty"`
	Present            int     `json:"present"`
	Absent             int     `json:"absent"`
	DaysOnLeave        float64 `json:"days_on_leave"`
	LateDays           int     `json:"late_days"`
	EarlyDepartureDays int     `json:"early_departure_days"`
	OvertimeHours      float64 `json:"overtime_hours"`
}

type MonthlyResponse struct {
	Month     int                  `json:"month"`
	Year      int                  `json:"year"`
	Employees []MonthlyEmployeeRow `json:"employees"`
}
