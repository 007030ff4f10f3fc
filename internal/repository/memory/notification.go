package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
)

type NotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	n.ID = uuid.Must(uuid.NewV7()).String()
	n.RecipientIDs = slices.Clone(n.RecipientIDs)
	n.CreatedAt, n.UpdatedAt = now, now
	r.notifications[n.ID] = n
	return n, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	return n, nil
}

func (r *NotificationRepository) List(ctx context.Context, filter notification.NotificationFilter) ([]notification.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []notification.Notification
	for _, n := range r.notifications {
		if filter.Status != nil && string(n.Status) != *filter.Status {
			continue
		}
		if filter.Urgency != nil && string(n.Urgency) != *filter.Urgency {
			continue
		}
		if filter.DepartmentID != nil && (n.DepartmentID == nil || *n.DepartmentID != *filter.DepartmentID) {
			continue
		}
		out = append(out, n)
	}
	newestFirst(out)

	total := int64(len(out))
	if filter.Limit > 0 {
		start := min((max(filter.Page, 1)-1)*filter.Limit, len(out))
		end := min(start+filter.Limit, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func (r *NotificationRepository) ListForEmployee(ctx context.Context, employeeID string, departmentID *string) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.notifications {
		if n.Reaches(employeeID, departmentID) {
			out = append(out, n)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.notifications[n.ID]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	n.RecipientIDs = slices.Clone(n.RecipientIDs)
	n.CreatedBy = current.CreatedBy
	n.CreatedAt = current.CreatedAt
	n.UpdatedAt = time.Now()
	r.notifications[n.ID] = n
	return n, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return notification.ErrNotificationNotFound
	}
	delete(r.notifications, id)
	return nil
}

// newestFirst orders by creation time; v7 ids break ties in creation order.
func newestFirst(ns []notification.Notification) {
	sort.Slice(ns, func(i, j int) bool {
		if !ns[i].CreatedAt.Equal(ns[j].CreatedAt) {
			return ns[i].CreatedAt.After(ns[j].CreatedAt)
		}
		return ns[i].ID > ns[j].ID
	})
}
