package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	attendancesvc "github.com/hrm-suite/hrm-backend-go/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

// generateWorkers bounds how many employees GeneratePayroll processes at once.
const generateWorkers = 4

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	policy         attendance.Policy
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	policy attendance.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		policy:         policy,
	}
}

func (s *PayrollServiceImpl) ensureEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// CreatePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayroll(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if _, err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	key := payroll.PeriodKey{EmployeeID: req.EmployeeID, Month: req.PeriodMonth, Year: req.PeriodYear}
	record, err := MergeFields(nil, key, req.PayrollFields)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
			return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return mapToRecordResponse(created), nil
}

// UpsertPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpsertPayroll(ctx context.Context, req payroll.UpsertPayrollRequest) (payroll.UpsertPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.UpsertPayrollResponse{}, err
	}
	if _, err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return payroll.UpsertPayrollResponse{}, err
	}

	key := payroll.PeriodKey{EmployeeID: req.EmployeeID, Month: req.PeriodMonth, Year: req.PeriodYear}
	record, created, err := s.payrollRepo.Upsert(ctx, key, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		return MergeFields(existing, key, req.PayrollFields)
	})
	if err != nil {
		return payroll.UpsertPayrollResponse{}, err
	}

	return payroll.UpsertPayrollResponse{Created: created, Record: mapToRecordResponse(record)}, nil
}

// UpdatePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePayroll(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	updated, err := s.payrollRepo.UpdateByID(ctx, req.ID, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		return MergeFields(existing, existing.Key(), req.PayrollFields)
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(updated), nil
}

func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrolls(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ListByEmployee returns every record of one employee, newest period first.
func (s *PayrollServiceImpl) ListByEmployee(ctx context.Context, employeeID string, month, year *int) ([]payroll.PayrollRecordResponse, error) {
	if _, err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	// Limit 0 lists without paging.
	records, _, err := s.payrollRepo.List(ctx, payroll.PayrollFilter{
		EmployeeID:  &employeeID,
		PeriodMonth: month,
		PeriodYear:  year,
		Page:        1,
		SortBy:      "period",
		SortOrder:   "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return mapToRecordResponses(records), nil
}

func (s *PayrollServiceImpl) GetLatestByEmployee(ctx context.Context, employeeID string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetLatestByEmployee(ctx, employeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

// DeletePayroll implements payroll.PayrollService. Paid records are kept.
func (s *PayrollServiceImpl) DeletePayroll(ctx context.Context, id string) error {
	return s.payrollRepo.DeleteIf(ctx, id, func(record payroll.PayrollRecord) error {
		if record.Status == payroll.PayrollStatusPaid {
			return payroll.ErrCannotDeletePaidRecord
		}
		return nil
	})
}

// ========== GENERATION ==========

type generateResult struct {
	record  *payroll.PayrollRecord
	created bool
	skip    *payroll.GenerateSkip
}

// GeneratePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	period := attendance.Period{Month: req.PeriodMonth, Year: req.PeriodYear}
	scheduled, err := s.policy.ScheduledWorkdays(period.Month, period.Year)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	employees, skipped, err := s.employeesToGenerate(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	results := make([]generateResult, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generateWorkers)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			res, err := s.generateForEmployee(gctx, emp, period, scheduled)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	resp := payroll.GeneratePayrollResponse{
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
		Skipped:     skipped,
		Records:     make([]payroll.PayrollRecordResponse, 0, len(employees)),
	}
	for _, res := range results {
		switch {
		case res.skip != nil:
			resp.Skipped = append(resp.Skipped, *res.skip)
		case res.created:
			resp.Created++
			resp.Records = append(resp.Records, mapToRecordResponse(*res.record))
		default:
			resp.Updated++
			resp.Records = append(resp.Records, mapToRecordResponse(*res.record))
		}
	}

	slog.Info("payroll generated",
		"month", period.Month,
		"year", period.Year,
		"created", resp.Created,
		"updated", resp.Updated,
		"skipped", len(resp.Skipped),
	)

	return resp, nil
}

// employeesToGenerate resolves the requested employees, or every active one.
// Unknown ids are reported as skipped rather than failing the run.
func (s *PayrollServiceImpl) employeesToGenerate(ctx context.Context, ids []string) ([]employee.Employee, []payroll.GenerateSkip, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.GetActive(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get employees: %w", err)
		}
		return employees, nil, nil
	}

	var (
		employees []employee.Employee
		skipped   []payroll.GenerateSkip
		seen      = make(map[string]bool)
	)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				skipped = append(skipped, payroll.GenerateSkip{EmployeeID: id, Reason: employee.ErrEmployeeNotFound.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("failed to get employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, skipped, nil
}

func (s *PayrollServiceImpl) generateForEmployee(ctx context.Context, emp employee.Employee, period attendance.Period, scheduled int) (generateResult, error) {
	if !emp.BaseSalary.IsPositive() {
		return generateResult{skip: &payroll.GenerateSkip{EmployeeID: emp.ID, Reason: payroll.ErrEmployeeHasNoBaseSalary.Error()}}, nil
	}

	from, to := period.Range()
	records, err := s.attendanceRepo.ListByRange(ctx, emp.ID, from, to)
	if err != nil {
		return generateResult{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	summary := attendancesvc.Aggregate(records, s.policy)

	fields := payroll.PayrollFields{
		BaseSalary:     &emp.BaseSalary,
		WorkingDays:    &summary.WorkDays,
		LeaveDays:      &summary.LeaveDays,
		AbsentDays:     ptr(AbsentDays(scheduled, summary)),
		OvertimeHours:  &summary.TotalOvertimeHours,
		OvertimeAmount: ptr(OvertimeAmount(summary.TotalOvertimeHours, s.policy.OvertimeRatePerHour)),
	}

	key := payroll.PeriodKey{EmployeeID: emp.ID, Month: period.Month, Year: period.Year}
	record, created, err := s.payrollRepo.Upsert(ctx, key, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		f := fields
		if existing == nil && emp.BankName != nil && emp.BankAccountNumber != nil {
			f.BankInfo = &payroll.BankInfo{
				BankName:      *emp.BankName,
				AccountNumber: *emp.BankAccountNumber,
				AccountName:   emp.FullName,
			}
		}
		return MergeFields(existing, key, f)
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid) {
			return generateResult{skip: &payroll.GenerateSkip{EmployeeID: emp.ID, Reason: err.Error()}}, nil
		}
		return generateResult{}, err
	}

	if record.EmployeeName == nil {
		record.EmployeeName = &emp.FullName
		record.EmployeeCode = &emp.EmployeeCode
	}
	return generateResult{record: &record, created: created}, nil
}

// AbsentDays is the scheduled workdays not covered by attendance or leave, never negative.
// Fractional leave leaves a partial day, which does not count as absent.
func AbsentDays(scheduled int, summary attendance.MonthlySummary) int {
	return int(math.Max(0, math.Floor(float64(scheduled-summary.WorkDays)-summary.LeaveDays)))
}

func ptr[T any](v T) *T {
	return &v
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var paymentDate *string
	if r.PaymentDate != nil {
		str := r.PaymentDate.Format("2006-01-02")
		paymentDate = &str
	}

	return payroll.PayrollRecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		EmployeeCode:   r.EmployeeCode,
		PeriodMonth:    r.PeriodMonth,
		PeriodYear:     r.PeriodYear,
		BaseSalary:     r.BaseSalary,
		Allowances:     nonNilItems(r.Allowances),
		Bonuses:        nonNilItems(r.Bonuses),
		Deductions:     nonNilItems(r.Deductions),
		WorkingDays:    r.WorkingDays,
		LeaveDays:      r.LeaveDays,
		AbsentDays:     r.AbsentDays,
		OvertimeHours:  r.OvertimeHours,
		OvertimeAmount: r.OvertimeAmount,
		TotalAmount:    r.TotalAmount,
		Status:         string(r.Status),
		PaymentMethod:  string(r.PaymentMethod),
		BankInfo:       r.BankInfo,
		PaymentDate:    paymentDate,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
}

func nonNilItems(items []payroll.LineItem) []payroll.LineItem {
	if items == nil {
		return []payroll.LineItem{}
	}
	return items
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
