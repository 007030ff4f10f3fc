package report

import (
	"math"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/report"
)

type rollupBucket struct {
	summary   report.DepartmentSummary
	employees map[string]struct{}
}

// Rollup groups a month of records by the department of their employee.
// Records without a department land in the report.UnassignedDepartment bucket.
// Days are counted with the same classification the monthly aggregate uses.
func Rollup(records []attendance.Attendance, policy attendance.Policy) map[string]report.DepartmentSummary {
	buckets := make(map[string]*rollupBucket)

	for _, r := range records {
		deptID := report.UnassignedDepartment
		if r.DepartmentID != nil && *r.DepartmentID != "" {
			deptID = *r.DepartmentID
		}

		b, ok := buckets[deptID]
		if !ok {
			b = &rollupBucket{
				summary:   report.DepartmentSummary{DepartmentID: deptID},
				employees: make(map[string]struct{}),
			}
			buckets[deptID] = b
		}
		b.employees[r.EmployeeID] = struct{}{}

		outcome := attendance.Classify(r, policy.DefaultLeaveDays)
		switch outcome.Kind {
		case attendance.DayOnLeave:
			b.summary.DaysOnLeave += outcome.LeaveDays
			continue
		case attendance.DayPresent:
			b.summary.DaysPresent++
		case attendance.DayAbsent:
			b.summary.DaysAbsent++
		}
		if r.OvertimeHours != nil {
			b.summary.OvertimeHours += *r.OvertimeHours
		}
	}

	out := make(map[string]report.DepartmentSummary, len(buckets))
	for id, b := range buckets {
		b.summary.EmployeeCount = len(b.employees)
		b.summary.DaysOnLeave = round2(b.summary.DaysOnLeave)
		b.summary.OvertimeHours = round2(b.summary.OvertimeHours)
		out[id] = b.summary
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
