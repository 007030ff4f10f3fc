package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status,
	a.is_late, a.is_early_departure, a.is_leave, a.leave_type, a.leave_days, a.leave_reason,
	a.overtime_hours, a.overtime_start, a.overtime_end, a.overtime_reason, a.note,
	a.created_at, a.updated_at,
	e.full_name, e.department_id`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut, &att.Status,
		&att.IsLate, &att.IsEarlyDeparture, &att.IsLeave, &att.LeaveType, &att.LeaveDays, &att.LeaveReason,
		&att.OvertimeHours, &att.OvertimeStart, &att.OvertimeEnd, &att.OvertimeReason, &att.Note,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.DepartmentID,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	newAttendance.ID = id.String()

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in, check_out, status,
			is_late, is_early_departure, is_leave, leave_type, leave_days, leave_reason,
			overtime_hours, overtime_start, overtime_end, overtime_reason, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.Status,
		newAttendance.IsLate,
		newAttendance.IsEarlyDeparture,
		newAttendance.IsLeave,
		newAttendance.LeaveType,
		newAttendance.LeaveDays,
		newAttendance.LeaveReason,
		newAttendance.OvertimeHours,
		newAttendance.OvertimeStart,
		newAttendance.OvertimeEnd,
		newAttendance.OvertimeReason,
		newAttendance.Note,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_in = $2, check_out = $3, status = $4,
			is_late = $5, is_early_departure = $6, is_leave = $7, leave_type = $8, leave_days = $9, leave_reason = $10,
			overtime_hours = $11, overtime_start = $12, overtime_end = $13, overtime_reason = $14, note = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.CheckIn,
		att.CheckOut,
		att.Status,
		att.IsLate,
		att.IsEarlyDeparture,
		att.IsLeave,
		att.LeaveType,
		att.LeaveDays,
		att.LeaveReason,
		att.OvertimeHours,
		att.OvertimeStart,
		att.OvertimeEnd,
		att.OvertimeReason,
		att.Note,
	).Scan(&att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsLeave != nil {
		baseWhere += fmt.Sprintf(" AND a.is_leave = $%d", argIdx)
		args = append(args, *filter.IsLeave)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "check_in_time":
		orderByField = "a.check_in"
	case "check_out_time":
		orderByField = "a.check_out"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s, a.employee_id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := max(filter.Page, 1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date >= $1 AND a.date < $2
		  AND ($3 = '' OR a.employee_id::text = $3)
		ORDER BY a.date, a.created_at
	`

	rows, err := q.Query(ctx, query, from, to, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}
