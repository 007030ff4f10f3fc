package payroll

import (
	"fmt"
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	Statuses       = []string{string(PayrollStatusPending), string(PayrollStatusApproved), string(PayrollStatusPaid)}
	PaymentMethods = []string{string(PaymentMethodBank), string(PaymentMethodCash), string(PaymentMethodOther)}
)

func (f *PayrollFields) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(string(*f.Status), Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(Statuses, ", "),
		})
	}
	if f.PaymentMethod != nil && !validator.IsInSlice(string(*f.PaymentMethod), PaymentMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "payment_method",
			Message: "payment_method must be one of: " + strings.Join(PaymentMethods, ", "),
		})
	}

	for field, items := range map[string]*[]LineItem{"allowances": f.Allowances, "bonuses": f.Bonuses, "deductions": f.Deductions} {
		if items == nil {
			continue
		}
		for i, item := range *items {
			if validator.IsEmpty(item.Type) {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("%s[%d].type", field, i),
					Message: "type is required",
				})
			}
			if !validator.HasMaxDecimals(item.Amount, 2) {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("%s[%d].amount", field, i),
					Message: "amount must have at most 2 decimal places",
				})
			}
		}
	}

	if f.BaseSalary != nil && !validator.HasMaxDecimals(*f.BaseSalary, 2) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must have at most 2 decimal places"})
	}
	if f.OvertimeAmount != nil && !validator.HasMaxDecimals(*f.OvertimeAmount, 2) {
		errs = append(errs, validator.ValidationError{Field: "overtime_amount", Message: "overtime_amount must have at most 2 decimal places"})
	}
	if f.LeaveDays != nil && !validator.FloatHasMaxDecimals(*f.LeaveDays, 1) {
		errs = append(errs, validator.ValidationError{Field: "leave_days", Message: "leave_days must have at most 1 decimal place"})
	}
	if f.OvertimeHours != nil && !validator.FloatHasMaxDecimals(*f.OvertimeHours, 2) {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "overtime_hours must have at most 2 decimal places"})
	}

	if f.WorkingDays != nil && *f.WorkingDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "working_days must not be negative"})
	}
	if f.LeaveDays != nil && *f.LeaveDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "leave_days", Message: "leave_days must not be negative"})
	}
	if f.AbsentDays != nil && *f.AbsentDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "absent_days", Message: "absent_days must not be negative"})
	}
	if f.OvertimeHours != nil && *f.OvertimeHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "overtime_hours", Message: "overtime_hours must not be negative"})
	}

	if f.PaymentDate != nil {
		if _, valid := validator.IsValidDate(*f.PaymentDate); !valid {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "payment_date must be in YYYY-MM-DD format"})
		}
	}

	return errs
}

func validatePeriodKey(employeeID string, month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}

	return errs
}

// ========== PAYROLL RECORD DTOs ==========

type CreatePayrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PayrollFields
}

func (r *CreatePayrollRequest) Validate() error {
	errs := validatePeriodKey(r.EmployeeID, r.PeriodMonth, r.PeriodYear)
	errs = append(errs, r.PayrollFields.Validate()...)
	if r.BaseSalary == nil {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary is required"})
	}
	return errs.OrNil()
}

type UpsertPayrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PayrollFields
}

func (r *UpsertPayrollRequest) Validate() error {
	errs := validatePeriodKey(r.EmployeeID, r.PeriodMonth, r.PeriodYear)
	errs = append(errs, r.PayrollFields.Validate()...)
	return errs.OrNil()
}

type UpdatePayrollRequest struct {
	ID string `json:"-"`
	PayrollFields
}

func (r *UpdatePayrollRequest) Validate() error {
	return r.PayrollFields.Validate().OrNil()
}

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}

	return errs.OrNil()
}

type GeneratePayrollResponse struct {
	PeriodMonth int                     `json:"period_month"`
	PeriodYear  int                     `json:"period_year"`
	Created     int                     `json:"created"`
	Updated     int                     `json:"updated"`
	Skipped     []GenerateSkip          `json:"skipped,omitempty"`
	Records     []PayrollRecordResponse `json:"records"`
}

type GenerateSkip struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type PayrollRecordResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	EmployeeCode   *string         `json:"employee_code,omitempty"`
	PeriodMonth    int             `json:"period_month"`
	PeriodYear     int             `json:"period_year"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	Allowances     []LineItem      `json:"allowances"`
	Bonuses        []LineItem      `json:"bonuses"`
	Deductions     []LineItem      `json:"deductions"`
	WorkingDays    int             `json:"working_days"`
	LeaveDays      float64         `json:"leave_days"`
	AbsentDays     int             `json:"absent_days"`
	OvertimeHours  float64         `json:"overtime_hours"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	BankInfo       *BankInfo       `json:"bank_info,omitempty"`
	PaymentDate    *string         `json:"payment_date,omitempty"`
	Note           *string         `json:"note,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

type UpsertPayrollResponse struct {
	Created bool                  `json:"created"`
	Record  PayrollRecordResponse `json:"record"`
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(Statuses, ", "),
		})
	}

	if f.SortBy == "" {
		f.SortBy = "period"
	} else if !validator.IsInSlice(f.SortBy, []string{"period", "total_amount", "employee_name", "created_at"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: period, total_amount, employee_name, created_at"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be one of: asc, desc"})
	}

	return errs.OrNil()
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}
