package report

import (
	"testing"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func present(employeeID string, dept *string, overtime float64) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:    employeeID,
		DepartmentID:  dept,
		CheckIn:       ptr(testDay),
		CheckOut:      ptr(testDay),
		OvertimeHours: &overtime,
	}
}

func TestRollup_Empty(t *testing.T) {
	assert.Empty(t, Rollup(nil, attendance.DefaultPolicy()))
}

func TestRollup(t *testing.T) {
	eng := ptr("eng")
	ops := ptr("ops")

	records := []attendance.Attendance{
		present("e1", eng, 1.5),
		present("e1", eng, 0),
		present("e2", eng, 0.25),
		{EmployeeID: "e2", DepartmentID: eng},
		{EmployeeID: "e2", DepartmentID: eng, IsLeave: true, LeaveType: ptr("sick")},
		{EmployeeID: "e3", DepartmentID: ops, IsLeave: true, LeaveDays: ptr(0.5)},
		present("e4", nil, 2),
		present("e5", ptr(""), 0),
	}

	got := Rollup(records, attendance.DefaultPolicy())
	require.Len(t, got, 3)

	assert.Equal(t, report.DepartmentSummary{
		DepartmentID:  "eng",
		EmployeeCount: 2,
		DaysPresent:   3,
		DaysAbsent:    1,
		DaysOnLeave:   1,
		OvertimeHours: 1.75,
	}, got["eng"])

	assert.Equal(t, report.DepartmentSummary{
		DepartmentID:  "ops",
		EmployeeCount: 1,
		DaysOnLeave:   0.5,
	}, got["ops"])

	unassigned := got[report.UnassignedDepartment]
	assert.Equal(t, 2, unassigned.EmployeeCount)
	assert.Equal(t, 2, unassigned.DaysPresent)
	assert.Equal(t, 2.0, unassigned.OvertimeHours)
}

func TestRollup_LeaveOvertimeIgnored(t *testing.T) {
	records := []attendance.Attendance{
		{EmployeeID: "e1", DepartmentID: ptr("eng"), IsLeave: true, OvertimeHours: ptr(3.0)},
	}

	got := Rollup(records, attendance.DefaultPolicy())
	assert.Zero(t, got["eng"].OvertimeHours)
	assert.Equal(t, 1.0, got["eng"].DaysOnLeave)
}
