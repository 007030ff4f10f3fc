package payroll

import "context"

type PayrollService interface {
	// CreatePayroll rejects a second record for the same employee and period
	CreatePayroll(ctx context.Context, req CreatePayrollRequest) (PayrollRecordResponse, error)

	// UpsertPayroll creates the period's record or merges into the existing one
	UpsertPayroll(ctx context.Context, req UpsertPayrollRequest) (UpsertPayrollResponse, error)

	UpdatePayroll(ctx context.Context, req UpdatePayrollRequest) (PayrollRecordResponse, error)
	GetPayroll(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, month, year *int) ([]PayrollRecordResponse, error)
	GetLatestByEmployee(ctx context.Context, employeeID string) (PayrollRecordResponse, error)
	DeletePayroll(ctx context.Context, id string) error

	// GeneratePayroll derives records for a month from attendance
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
}
