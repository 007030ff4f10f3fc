package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/report"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrNotOwnRecord),
		errors.Is(err, user.ErrCannotModifySelf):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrInvalidWorkHours):
		BadRequest(w, err.Error(), nil)

	// Department
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")
	case errors.Is(err, department.ErrDepartmentHasEmployees):
		Conflict(w, err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceAlreadyExists),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrOnLeave),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Payroll
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid),
		errors.Is(err, payroll.ErrCannotDeletePaidRecord):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrBaseSalaryRequired),
		errors.Is(err, payroll.ErrEmployeeHasNoBaseSalary),
		errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Notification
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnknownRecipient):
		BadRequest(w, err.Error(), nil)

	// Activity log
	case errors.Is(err, activitylog.ErrActivityLogNotFound):
		NotFound(w, "Activity log not found")

	// Report
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
