package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `
	p.id, p.employee_id, p.period_month, p.period_year, p.base_salary,
	p.allowances, p.bonuses, p.deductions,
	p.working_days, p.leave_days, p.absent_days, p.overtime_hours, p.overtime_amount, p.total_amount,
	p.status, p.payment_method, p.bank_info, p.payment_date, p.note,
	p.created_at, p.updated_at,
	e.full_name, e.employee_code`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var (
		rec                             payroll.PayrollRecord
		allowances, bonuses, deductions []byte
		bankInfo                        []byte
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear, &rec.BaseSalary,
		&allowances, &bonuses, &deductions,
		&rec.WorkingDays, &rec.LeaveDays, &rec.AbsentDays, &rec.OvertimeHours, &rec.OvertimeAmount, &rec.TotalAmount,
		&rec.Status, &rec.PaymentMethod, &bankInfo, &rec.PaymentDate, &rec.Note,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	if err := json.Unmarshal(allowances, &rec.Allowances); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("decode allowances: %w", err)
	}
	if err := json.Unmarshal(bonuses, &rec.Bonuses); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("decode bonuses: %w", err)
	}
	if err := json.Unmarshal(deductions, &rec.Deductions); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("decode deductions: %w", err)
	}
	if len(bankInfo) > 0 {
		if err := json.Unmarshal(bankInfo, &rec.BankInfo); err != nil {
			return payroll.PayrollRecord{}, fmt.Errorf("decode bank info: %w", err)
		}
	}

	return rec, nil
}

// encodedItems holds the JSONB arguments of a record.
type encodedItems struct {
	allowances, bonuses, deductions []byte
	bankInfo                        []byte
}

func encodeItems(rec payroll.PayrollRecord) (encodedItems, error) {
	var (
		out encodedItems
		err error
	)
	if out.allowances, err = json.Marshal(nonNil(rec.Allowances)); err != nil {
		return out, fmt.Errorf("encode allowances: %w", err)
	}
	if out.bonuses, err = json.Marshal(nonNil(rec.Bonuses)); err != nil {
		return out, fmt.Errorf("encode bonuses: %w", err)
	}
	if out.deductions, err = json.Marshal(nonNil(rec.Deductions)); err != nil {
		return out, fmt.Errorf("encode deductions: %w", err)
	}
	if rec.BankInfo != nil {
		if out.bankInfo, err = json.Marshal(rec.BankInfo); err != nil {
			return out, fmt.Errorf("encode bank info: %w", err)
		}
	}
	return out, nil
}

func nonNil(items []payroll.LineItem) []payroll.LineItem {
	if items == nil {
		return []payroll.LineItem{}
	}
	return items
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	created, inserted, err := r.insert(ctx, record, false)
	if err != nil {
		if database.IsUniqueViolation(err, "payroll_records_employee_period_key") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, err
	}
	if !inserted {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}
	return created, nil
}

// insert stores record. With skipConflict a concurrent record for the same period makes it
// return inserted=false instead of failing.
func (r *payrollRepository) insert(ctx context.Context, record payroll.PayrollRecord, skipConflict bool) (payroll.PayrollRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to generate payroll id: %w", err)
	}
	record.ID = id.String()

	enc, err := encodeItems(record)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}

	onConflict := ""
	if skipConflict {
		onConflict = "ON CONFLICT (employee_id, period_month, period_year) DO NOTHING"
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year, base_salary,
			allowances, bonuses, deductions,
			working_days, leave_days, absent_days, overtime_hours, overtime_amount, total_amount,
			status, payment_method, bank_info, payment_date, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		) ` + onConflict + `
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.BaseSalary,
		enc.allowances, enc.bonuses, enc.deductions,
		record.WorkingDays, record.LeaveDays, record.AbsentDays, record.OvertimeHours, record.OvertimeAmount, record.TotalAmount,
		record.Status, record.PaymentMethod, enc.bankInfo, record.PaymentDate, record.Note,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if skipConflict && errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, false, nil
		}
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, true, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.getByID(ctx, id, false)
}

func (r *payrollRepository) getByID(ctx context.Context, id string, forUpdate bool) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	lock := ""
	if forUpdate {
		lock = "FOR UPDATE OF p"
	}

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
		` + lock

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	return r.getByKey(ctx, payroll.PeriodKey{EmployeeID: employeeID, Month: month, Year: year}, false)
}

func (r *payrollRepository) getByKey(ctx context.Context, key payroll.PeriodKey, forUpdate bool) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	lock := ""
	if forUpdate {
		lock = "FOR UPDATE OF p"
	}

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.period_month = $2 AND p.period_year = $3
		` + lock

	rec, err := scanPayroll(q.QueryRow(ctx, query, key.EmployeeID, key.Month, key.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by period: %w", err)
	}
	return rec, nil
}

// GetLatestByEmployee implements payroll.PayrollRepository.
func (r *payrollRepository) GetLatestByEmployee(ctx context.Context, employeeID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1
		ORDER BY p.period_year DESC, p.period_month DESC
		LIMIT 1
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get latest payroll record: %w", err)
	}
	return rec, nil
}

// List implements payroll.PayrollRepository. A zero limit returns every match.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.PeriodMonth != nil {
		baseWhere += fmt.Sprintf(" AND p.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseWhere += fmt.Sprintf(" AND p.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_records p WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	orderBy := fmt.Sprintf("p.period_year %s, p.period_month %s, e.full_name", sortOrder, sortOrder)
	switch filter.SortBy {
	case "total_amount":
		orderBy = "p.total_amount " + sortOrder
	case "employee_name":
		orderBy = "e.full_name " + sortOrder
	case "created_at":
		orderBy = "p.created_at " + sortOrder
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY %s
	`, payrollColumns, baseWhere, orderBy)

	if filter.Limit > 0 {
		page := max(filter.Page, 1)
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepository) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	enc, err := encodeItems(record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	query := `
		UPDATE payroll_records SET
			base_salary = $2, allowances = $3, bonuses = $4, deductions = $5,
			working_days = $6, leave_days = $7, absent_days = $8,
			overtime_hours = $9, overtime_amount = $10, total_amount = $11,
			status = $12, payment_method = $13, bank_info = $14, payment_date = $15, note = $16,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = q.QueryRow(ctx, query,
		record.ID, record.BaseSalary, enc.allowances, enc.bonuses, enc.deductions,
		record.WorkingDays, record.LeaveDays, record.AbsentDays,
		record.OvertimeHours, record.OvertimeAmount, record.TotalAmount,
		record.Status, record.PaymentMethod, enc.bankInfo, record.PaymentDate, record.Note,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return record, nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}

// Upsert implements payroll.PayrollRepository. The existing row is locked with
// SELECT ... FOR UPDATE; when there is none the insert skips on conflict, and a
// lost race falls back to merging into the row the other writer committed.
func (r *payrollRepository) Upsert(ctx context.Context, key payroll.PeriodKey, merge payroll.MergeFunc) (payroll.PayrollRecord, bool, error) {
	var (
		result  payroll.PayrollRecord
		created bool
	)

	err := NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		existing, err := r.getByKey(ctx, key, true)
		switch {
		case err == nil:
			result, err = r.mergeInto(ctx, existing, merge)
			return err
		case !errors.Is(err, payroll.ErrPayrollRecordNotFound):
			return err
		}

		fresh, err := merge(nil)
		if err != nil {
			return err
		}
		fresh.EmployeeID, fresh.PeriodMonth, fresh.PeriodYear = key.EmployeeID, key.Month, key.Year

		inserted, ok, err := r.insert(ctx, fresh, true)
		if err != nil {
			return err
		}
		if ok {
			result, created = inserted, true
			return nil
		}

		existing, err = r.getByKey(ctx, key, true)
		if err != nil {
			return err
		}
		result, err = r.mergeInto(ctx, existing, merge)
		return err
	})
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}

	return result, created, nil
}

// UpdateByID implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateByID(ctx context.Context, id string, merge payroll.MergeFunc) (payroll.PayrollRecord, error) {
	var result payroll.PayrollRecord

	err := NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		existing, err := r.getByID(ctx, id, true)
		if err != nil {
			return err
		}
		result, err = r.mergeInto(ctx, existing, merge)
		return err
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	return result, nil
}

// DeleteIf implements payroll.PayrollRepository.
func (r *payrollRepository) DeleteIf(ctx context.Context, id string, check func(payroll.PayrollRecord) error) error {
	return NewTransactor(r.db).WithinTx(ctx, func(ctx context.Context) error {
		existing, err := r.getByID(ctx, id, true)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return r.Delete(ctx, id)
	})
}

func (r *payrollRepository) mergeInto(ctx context.Context, existing payroll.PayrollRecord, merge payroll.MergeFunc) (payroll.PayrollRecord, error) {
	merged, err := merge(&existing)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.EmployeeName, merged.EmployeeCode = existing.EmployeeName, existing.EmployeeCode
	return r.Update(ctx, merged)
}
