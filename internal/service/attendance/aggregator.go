package attendance

import (
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
)

// Aggregate folds one employee's records for a month into a summary.
// Every record is classified once with attendance.Classify.
func Aggregate(records []attendance.Attendance, policy attendance.Policy) attendance.MonthlySummary {
	var s attendance.MonthlySummary

	for _, r := range records {
		outcome := attendance.Classify(r, policy.DefaultLeaveDays)

		switch outcome.Kind {
		case attendance.DayOnLeave:
			s.LeaveDays += outcome.LeaveDays
			continue
		case attendance.DayPresent:
			s.WorkDays++
		case attendance.DayAbsent:
			s.AbsentDays++
		}

		if r.IsLate != nil && *r.IsLate {
			s.LateDays++
		}
		if r.IsEarlyDeparture != nil && *r.IsEarlyDeparture {
			s.EarlyDepartureDays++
		}
		if r.OvertimeHours != nil {
			s.TotalOvertimeHours += *r.OvertimeHours
		}
	}

	s.LeaveDays = round2(s.LeaveDays)
	s.TotalOvertimeHours = round2(s.TotalOvertimeHours)
	return s
}

// aggregateByEmployee groups records per employee, keeping the first-seen order.
func aggregateByEmployee(records []attendance.Attendance, policy attendance.Policy) []attendance.MonthlyEmployeeRow {
	index := make(map[string]int)
	grouped := make([][]attendance.Attendance, 0)
	rows := make([]attendance.MonthlyEmployeeRow, 0)

	for _, r := range records {
		i, ok := index[r.EmployeeID]
		if !ok {
			i = len(rows)
			index[r.EmployeeID] = i
			grouped = append(grouped, nil)
			rows = append(rows, attendance.MonthlyEmployeeRow{
				EmployeeID:   r.EmployeeID,
				EmployeeName: r.EmployeeName,
				DepartmentID: r.DepartmentID,
			})
		}
		grouped[i] = append(grouped[i], r)
	}

	for i := range rows {
		s := Aggregate(grouped[i], policy)
		rows[i].Present = s.WorkDays
		rows[i].Absent = s.AbsentDays
		rows[i].DaysOnLeave = s.LeaveDays
		rows[i].LateDays = s.LateDays
		rows[i].EarlyDepartureDays = s.EarlyDepartureDays
		rows[i].OvertimeHours = s.TotalOvertimeHours
	}

	return rows
}
