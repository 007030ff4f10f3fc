package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCheckIn Permission = "attendance.check_in"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Payroll
	PermissionPayrollViewOwn  Permission = "payroll.view_own"
	PermissionPayrollManage   Permission = "payroll.manage"
	PermissionPayrollGenerate Permission = "payroll.generate"

	// Organisation
	PermissionEmployeeManage   Permission = "employee.manage"
	PermissionDepartmentManage Permission = "department.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// Notifications
	PermissionNotificationViewOwn Permission = "notification.view_own"
	PermissionNotificationManage  Permission = "notification.manage"

	// Accounts
	PermissionUserManage        Permission = "user.manage"
	PermissionActivityLogManage Permission = "activity_log.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCheckIn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionPayrollViewOwn,
		PermissionPayrollManage,
		PermissionPayrollGenerate,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
		PermissionReportsView,
		PermissionNotificationViewOwn,
		PermissionNotificationManage,
		PermissionUserManage,
		PermissionActivityLogManage,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCheckIn,
		PermissionPayrollViewOwn,
		PermissionNotificationViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
