package payroll

import "context"

// MergeFunc builds the record to store from the current one, which is nil when
// the period has no record yet.
type MergeFunc func(existing *PayrollRecord) (PayrollRecord, error)

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Create fails with ErrPayrollRecordAlreadyExists when the period already has a record.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	GetLatestByEmployee(ctx context.Context, employeeID string) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	Delete(ctx context.Context, id string) error

	// Upsert runs merge against the locked record for key inside one transaction
	// and stores the result. created is true when no record existed before.
	Upsert(ctx context.Context, key PeriodKey, merge MergeFunc) (record PayrollRecord, created bool, err error)

	// UpdateByID runs merge against the locked record id inside one transaction and stores the result.
	UpdateByID(ctx context.Context, id string, merge MergeFunc) (PayrollRecord, error)

	// DeleteIf deletes record id when check accepts the locked record.
	DeleteIf(ctx context.Context, id string, check func(PayrollRecord) error) error
}
