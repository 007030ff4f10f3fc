package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
)

// ActivityLogRepository keeps entries in memory. Emails are not joined, so
// UserEmail stays whatever the caller stored.
type ActivityLogRepository struct {
	mu   sync.Mutex
	logs map[string]activitylog.ActivityLog
}

func NewActivityLogRepository() *ActivityLogRepository {
	return &ActivityLogRepository{logs: make(map[string]activitylog.ActivityLog)}
}

func (r *ActivityLogRepository) Create(ctx context.Context, log activitylog.ActivityLog) (activitylog.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	log.ID = uuid.Must(uuid.NewV7()).String()
	log.CreatedAt, log.UpdatedAt = now, now
	r.logs[log.ID] = log
	return log, nil
}

func (r *ActivityLogRepository) GetByID(ctx context.Context, id string) (activitylog.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok {
		return activitylog.ActivityLog{}, activitylog.ErrActivityLogNotFound
	}
	return log, nil
}

func (r *ActivityLogRepository) List(ctx context.Context, filter activitylog.ActivityLogFilter) ([]activitylog.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []activitylog.ActivityLog
	for _, log := range r.logs {
		if filter.UserID != nil && *filter.UserID != "" && log.UserID != *filter.UserID {
			continue
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	total := int64(len(out))
	if filter.Limit > 0 {
		start := min((max(filter.Page, 1)-1)*filter.Limit, len(out))
		end := min(start+filter.Limit, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func (r *ActivityLogRepository) UpdateAction(ctx context.Context, id string, action string) (activitylog.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok {
		return activitylog.ActivityLog{}, activitylog.ErrActivityLogNotFound
	}
	log.Action = action
	log.UpdatedAt = time.Now()
	r.logs[id] = log
	return log, nil
}

func (r *ActivityLogRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[id]; !ok {
		return activitylog.ErrActivityLogNotFound
	}
	delete(r.logs, id)
	return nil
}
