package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy attendance.Policy
	now    func() time.Time
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// policyFor returns the organisation policy with the employee's own work hours applied.
func (a *AttendanceServiceImpl) policyFor(ctx context.Context, employeeID string) (attendance.Policy, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.Policy{}, employee.ErrEmployeeNotFound
		}
		return attendance.Policy{}, fmt.Errorf("failed to get employee: %w", err)
	}

	p, err := a.policy.WithWorkHours(emp.WorkStart, emp.WorkEnd)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("employee %s: %w", employeeID, err)
	}
	return p, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	policy, err := a.policyFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()
	date := policy.DateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing != nil {
		switch {
		case existing.IsLeave:
			return attendance.AttendanceResponse{}, attendance.ErrOnLeave
		case existing.CheckIn != nil:
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}

		// An empty record left by the absence job is filled in place.
		record := *existing
		record.CheckIn = &now
		if req.Note != nil {
			record.Note = req.Note
		}
		record, err = Evaluate(record, policy)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}

		updated, err := a.AttendanceRepository.Update(ctx, record)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		return mapAttendanceToResponse(updated), nil
	}

	record, err := Evaluate(attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		CheckIn:    &now,
		Status:     attendance.StatusPending,
		Note:       req.Note,
	}, policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	policy, err := a.policyFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, policy.DateOf(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	switch {
	case existing == nil:
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	case existing.IsLeave:
		return attendance.AttendanceResponse{}, attendance.ErrOnLeave
	case existing.CheckIn == nil:
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	case existing.CheckOut != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	record := *existing
	record.CheckOut = &now
	if req.OvertimeReason != nil {
		record.OvertimeReason = req.OvertimeReason
	}
	if req.Note != nil {
		record.Note = req.Note
	}

	record, err = Evaluate(record, policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.Update(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	policy, err := a.policyFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	record := attendance.Attendance{
		EmployeeID:     req.EmployeeID,
		Date:           date,
		Status:         attendance.StatusPending,
		IsLeave:        req.IsLeave,
		LeaveType:      req.LeaveType,
		LeaveDays:      req.LeaveDays,
		LeaveReason:    req.LeaveReason,
		OvertimeReason: req.OvertimeReason,
		Note:           req.Note,
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.CheckInTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckInTime)
		record.CheckIn = &t
	}
	if req.CheckOutTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckOutTime)
		record.CheckOut = &t
	}

	record, err = Evaluate(record, policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if req.CheckInTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckInTime)
		record.CheckIn = &t
	}
	if req.CheckOutTime != nil {
		t, _ := validator.IsValidDateTime(*req.CheckOutTime)
		record.CheckOut = &t
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.IsLeave != nil {
		record.IsLeave = *req.IsLeave
	}
	if req.LeaveType != nil {
		record.LeaveType = req.LeaveType
	}
	if req.LeaveDays != nil {
		record.LeaveDays = req.LeaveDays
	}
	if req.LeaveReason != nil {
		record.LeaveReason = req.LeaveReason
	}
	if req.OvertimeReason != nil {
		record.OvertimeReason = req.OvertimeReason
	}
	if req.Note != nil {
		record.Note = req.Note
	}
	if req.IsLeave != nil && !*req.IsLeave && req.LeaveType == nil {
		record.LeaveType = nil
		record.LeaveDays = nil
		record.LeaveReason = nil
	}
	if errs := attendance.ValidateLeaveType(record.IsLeave, record.LeaveType); len(errs) > 0 {
		return attendance.AttendanceResponse{}, errs
	}

	policy, err := a.policyFor(ctx, record.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err = Evaluate(record, policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.Update(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// ListByEmployee implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.EmployeeID = &employeeID
	return a.ListAttendance(ctx, filter)
}

// GetSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeID string, period attendance.Period) (attendance.SummaryResponse, error) {
	if err := period.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.SummaryResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.SummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	from, to := period.Range()
	records, err := a.AttendanceRepository.ListByRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapAttendanceToResponse(r))
	}

	return attendance.SummaryResponse{
		EmployeeID: employeeID,
		Month:      period.Month,
		Year:       period.Year,
		Summary:    Aggregate(records, a.policy),
		Records:    responses,
	}, nil
}

// GetMonthly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthly(ctx context.Context, period attendance.Period) (attendance.MonthlyResponse, error) {
	if err := period.Validate(); err != nil {
		return attendance.MonthlyResponse{}, err
	}

	from, to := period.Range()
	records, err := a.AttendanceRepository.ListByRange(ctx, "", from, to)
	if err != nil {
		return attendance.MonthlyResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return attendance.MonthlyResponse{
		Month:     period.Month,
		Year:      period.Year,
		Employees: aggregateByEmployee(records, a.policy),
	}, nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	day := a.policy.DateOf(date)

	workday, err := a.policy.IsWorkday(day)
	if err != nil {
		return 0, err
	}
	if !workday {
		return 0, nil
	}

	employees, err := a.EmployeeRepository.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		if emp.HireDate.After(day) {
			continue
		}

		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, day)
		if err != nil {
			return marked, fmt.Errorf("failed to get attendance for employee %s: %w", emp.ID, err)
		}
		if existing != nil {
			continue
		}

		_, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       day,
			Status:     attendance.StatusPending,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
				continue
			}
			return marked, fmt.Errorf("failed to mark employee %s absent: %w", emp.ID, err)
		}
		marked++
	}

	if marked > 0 {
		slog.Info("marked employees absent", "date", day.Format("2006-01-02"), "count", marked)
	}
	return marked, nil
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:               att.ID,
		EmployeeID:       att.EmployeeID,
		EmployeeName:     att.EmployeeName,
		Date:             att.Date.Format("2006-01-02"),
		CheckInTime:      timePtrToString(att.CheckIn),
		CheckOutTime:     timePtrToString(att.CheckOut),
		Status:           att.Status,
		IsLate:           att.IsLate,
		IsEarlyDeparture: att.IsEarlyDeparture,
		IsLeave:          att.IsLeave,
		LeaveType:        att.LeaveType,
		LeaveDays:        att.LeaveDays,
		LeaveReason:      att.LeaveReason,
		OvertimeHours:    att.OvertimeHours,
		OvertimeStart:    att.OvertimeStart,
		OvertimeEnd:      att.OvertimeEnd,
		OvertimeReason:   att.OvertimeReason,
		Note:             att.Note,
		Remarks:          BuildRemarks(att),
		CreatedAt:        att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if wh, err := ComputeWorkingHours(att.CheckIn, att.CheckOut); err == nil && wh != nil {
		resp.WorkingHours = &wh.Label
		resp.WorkingHoursDecimal = &wh.Hours
	}

	return resp
}

// NewAttendanceService builds the attendance service. A nil now uses time.Now.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policy attendance.Policy,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policy:               policy,
		now:                  now,
	}
}
