package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrBaseSalaryRequired         = errors.New("base_salary is required to create a payroll record")
	ErrEmployeeHasNoBaseSalary    = errors.New("employee has no base salary configured")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
)
