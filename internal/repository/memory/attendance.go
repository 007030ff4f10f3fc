package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
}

func NewAttendanceRepository(records ...attendance.Attendance) *AttendanceRepository {
	r := &AttendanceRepository{records: make(map[string]attendance.Attendance)}
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.Must(uuid.NewV7()).String()
		}
		r.records[rec.ID] = rec
	}
	return r
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *AttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.EmployeeID == a.EmployeeID && sameDay(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
	}

	now := time.Now()
	a.ID = uuid.Must(uuid.NewV7()).String()
	a.CreatedAt, a.UpdatedAt = now, now
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.records {
		if a.EmployeeID == employeeID && sameDay(a.Date, date) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = time.Now()
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	var matched []attendance.Attendance
	for _, a := range r.records {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.IsLeave != nil && a.IsLeave != *filter.IsLeave {
			continue
		}
		if filter.Date != nil && a.Date.Format("2006-01-02") != *filter.Date {
			continue
		}
		if filter.StartDate != nil && a.Date.Format("2006-01-02") < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && a.Date.Format("2006-01-02") > *filter.EndDate {
			continue
		}
		matched = append(matched, a)
	}
	r.mu.Unlock()

	sortByDate(matched)
	if filter.SortOrder == "desc" {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *AttendanceRepository) ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range r.records {
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		out = append(out, a)
	}
	sortByDate(out)
	return out, nil
}

func sortByDate(records []attendance.Attendance) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date) {
			return records[i].EmployeeID < records[j].EmployeeID
		}
		return records[i].Date.Before(records[j].Date)
	})
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return []T{}
	}
	return items[start:min(start+limit, len(items))]
}
