package payroll

import (
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func sumItems(items []payroll.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// ComputeTotal returns base + allowances + bonuses - deductions + overtime, rounded to cents.
// Line item amounts may be negative.
func ComputeTotal(base decimal.Decimal, allowances, bonuses, deductions []payroll.LineItem, overtimeAmount decimal.Decimal) decimal.Decimal {
	return base.
		Add(sumItems(allowances)).
		Add(sumItems(bonuses)).
		Sub(sumItems(deductions)).
		Add(overtimeAmount).
		Round(2)
}

// OvertimeAmount prices overtime hours at the hourly rate, rounded to cents.
func OvertimeAmount(hours float64, ratePerHour decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(hours).Mul(ratePerHour).Round(2)
}

// Recalculate sets TotalAmount from the record's constituents.
func Recalculate(r payroll.PayrollRecord) payroll.PayrollRecord {
	r.TotalAmount = ComputeTotal(r.BaseSalary, r.Allowances, r.Bonuses, r.Deductions, r.OvertimeAmount)
	return r
}

// MergeFields builds a record from fields. A nil existing creates a new record, which
// needs a base salary; otherwise the non-nil fields are laid over existing.
// The total is always recomputed.
func MergeFields(existing *payroll.PayrollRecord, key payroll.PeriodKey, fields payroll.PayrollFields) (payroll.PayrollRecord, error) {
	var r payroll.PayrollRecord

	if existing == nil {
		if fields.BaseSalary == nil {
			return payroll.PayrollRecord{}, payroll.ErrBaseSalaryRequired
		}
		r = payroll.PayrollRecord{
			EmployeeID:     key.EmployeeID,
			PeriodMonth:    key.Month,
			PeriodYear:     key.Year,
			Allowances:     []payroll.LineItem{},
			Bonuses:        []payroll.LineItem{},
			Deductions:     []payroll.LineItem{},
			OvertimeAmount: decimal.Zero,
			Status:         payroll.PayrollStatusPending,
			PaymentMethod:  payroll.PaymentMethodBank,
		}
	} else {
		if existing.Status == payroll.PayrollStatusPaid && !fields.OnlySettlementFields() {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyPaid
		}
		r = *existing
	}

	if fields.BaseSalary != nil {
		r.BaseSalary = *fields.BaseSalary
	}
	if fields.Allowances != nil {
		r.Allowances = *fields.Allowances
	}
	if fields.Bonuses != nil {
		r.Bonuses = *fields.Bonuses
	}
	if fields.Deductions != nil {
		r.Deductions = *fields.Deductions
	}
	if fields.WorkingDays != nil {
		r.WorkingDays = *fields.WorkingDays
	}
	if fields.LeaveDays != nil {
		r.LeaveDays = *fields.LeaveDays
	}
	if fields.AbsentDays != nil {
		r.AbsentDays = *fields.AbsentDays
	}
	if fields.OvertimeHours != nil {
		r.OvertimeHours = *fields.OvertimeHours
	}
	if fields.OvertimeAmount != nil {
		r.OvertimeAmount = *fields.OvertimeAmount
	}
	if fields.Status != nil {
		r.Status = *fields.Status
	}
	if fields.PaymentMethod != nil {
		r.PaymentMethod = *fields.PaymentMethod
	}
	if fields.BankInfo != nil {
		r.BankInfo = fields.BankInfo
	}
	if fields.PaymentDate != nil {
		date, ok := validator.IsValidDate(*fields.PaymentDate)
		if !ok {
			return payroll.PayrollRecord{}, validator.ValidationErrors{{Field: "payment_date", Message: "payment_date must be in YYYY-MM-DD format"}}
		}
		r.PaymentDate = &date
	}
	if fields.Note != nil {
		r.Note = fields.Note
	}

	if r.PaymentMethod != payroll.PaymentMethodBank {
		r.BankInfo = nil
	}

	return Recalculate(r), nil
}
