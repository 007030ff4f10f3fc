package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "pending"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodBank  PaymentMethod = "bank"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodOther PaymentMethod = "other"
)

// LineItem is one allowance, bonus or deduction. Amount may be negative for corrections.
type LineItem struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
}

type BankInfo struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// PayrollRecord - one employee's pay for one month.
// TotalAmount = BaseSalary + allowances + bonuses - deductions + OvertimeAmount.
type PayrollRecord struct {
	ID             string
	EmployeeID     string
	PeriodMonth    int
	PeriodYear     int
	BaseSalary     decimal.Decimal
	Allowances     []LineItem
	Bonuses        []LineItem
	Deductions     []LineItem
	WorkingDays    int
	LeaveDays      float64
	AbsentDays     int
	OvertimeHours  float64
	OvertimeAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         PayrollStatus
	PaymentMethod  PaymentMethod
	BankInfo       *BankInfo
	PaymentDate    *time.Time
	Note           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// PeriodKey is the uniqueness key of a payroll record.
type PeriodKey struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r PayrollRecord) Key() PeriodKey {
	return PeriodKey{EmployeeID: r.EmployeeID, Month: r.PeriodMonth, Year: r.PeriodYear}
}

// PayrollFields is a partial payroll record; nil fields are left untouched.
type PayrollFields struct {
	BaseSalary     *decimal.Decimal `json:"base_salary,omitempty"`
	Allowances     *[]LineItem      `json:"allowances,omitempty"`
	Bonuses        *[]LineItem      `json:"bonuses,omitempty"`
	Deductions     *[]LineItem      `json:"deductions,omitempty"`
	WorkingDays    *int             `json:"working_days,omitempty"`
	LeaveDays      *float64         `json:"leave_days,omitempty"`
	AbsentDays     *int             `json:"absent_days,omitempty"`
	OvertimeHours  *float64         `json:"overtime_hours,omitempty"`
	OvertimeAmount *decimal.Decimal `json:"overtime_amount,omitempty"`
	Status         *PayrollStatus   `json:"status,omitempty"`
	PaymentMethod  *PaymentMethod   `json:"payment_method,omitempty"`
	BankInfo       *BankInfo        `json:"bank_info,omitempty"`
	PaymentDate    *string          `json:"payment_date,omitempty"` // YYYY-MM-DD
	Note           *string          `json:"note,omitempty"`
}

// OnlySettlementFields reports whether f touches nothing but status, payment and note,
// the only fields still editable once a record is paid.
func (f PayrollFields) OnlySettlementFields() bool {
	return f.BaseSalary == nil && f.Allowances == nil && f.Bonuses == nil && f.Deductions == nil &&
		f.WorkingDays == nil && f.LeaveDays == nil && f.AbsentDays == nil &&
		f.OvertimeHours == nil && f.OvertimeAmount == nil
}
