package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
)

type PayrollRepository struct {
	mu      sync.Mutex
	records map[string]payroll.PayrollRecord
}

func NewPayrollRepository() *PayrollRepository {
	return &PayrollRepository{records: make(map[string]payroll.PayrollRecord)}
}

func (r *PayrollRepository) findLocked(key payroll.PeriodKey) (payroll.PayrollRecord, bool) {
	for _, rec := range r.records {
		if rec.Key() == key {
			return rec, true
		}
	}
	return payroll.PayrollRecord{}, false
}

func (r *PayrollRepository) insertLocked(rec payroll.PayrollRecord) payroll.PayrollRecord {
	now := time.Now()
	rec.ID = uuid.Must(uuid.NewV7()).String()
	rec.CreatedAt, rec.UpdatedAt = now, now
	r.records[rec.ID] = rec
	return rec
}

func (r *PayrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.findLocked(rec.Key()); exists {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}
	return r.insertLocked(rec), nil
}

func (r *PayrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (r *PayrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.findLocked(payroll.PeriodKey{EmployeeID: employeeID, Month: month, Year: year})
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (r *PayrollRepository) GetLatestByEmployee(ctx context.Context, employeeID string) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *payroll.PayrollRecord
	for _, rec := range r.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		if latest == nil || periodIndex(rec) > periodIndex(*latest) {
			rec := rec
			latest = &rec
		}
	}
	if latest == nil {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return *latest, nil
}

func periodIndex(rec payroll.PayrollRecord) int {
	return rec.PeriodYear*12 + rec.PeriodMonth
}

func (r *PayrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	r.mu.Lock()
	var matched []payroll.PayrollRecord
	for _, rec := range r.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.PeriodMonth != nil && rec.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && rec.PeriodYear != *filter.PeriodYear {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if periodIndex(matched[i]) == periodIndex(matched[j]) {
			return matched[i].EmployeeID < matched[j].EmployeeID
		}
		if filter.SortOrder == "asc" {
			return periodIndex(matched[i]) < periodIndex(matched[j])
		}
		return periodIndex(matched[i]) > periodIndex(matched[j])
	})
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *PayrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[rec.ID]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *PayrollRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	delete(r.records, id)
	return nil
}

// Upsert holds the repository lock across merge, so concurrent calls for one
// key are serialised the same way a row lock serialises them in PostgreSQL.
func (r *PayrollRepository) Upsert(ctx context.Context, key payroll.PeriodKey, merge payroll.MergeFunc) (payroll.PayrollRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.findLocked(key)
	if !ok {
		rec, err := merge(nil)
		if err != nil {
			return payroll.PayrollRecord{}, false, err
		}
		return r.insertLocked(rec), true, nil
	}

	rec, err := merge(&existing)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, false, nil
}

func (r *PayrollRepository) UpdateByID(ctx context.Context, id string, merge payroll.MergeFunc) (payroll.PayrollRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	rec, err := merge(&existing)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *PayrollRepository) DeleteIf(ctx context.Context, id string, check func(payroll.PayrollRecord) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	if err := check(existing); err != nil {
		return err
	}
	delete(r.records, id)
	return nil
}
