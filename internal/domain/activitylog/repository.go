package activitylog

import "context"

type ActivityLogRepository interface {
	Create(ctx context.Context, log ActivityLog) (ActivityLog, error)
	GetByID(ctx context.Context, id string) (ActivityLog, error)
	// List returns entries newest first together with the unpaged total
	List(ctx context.Context, filter ActivityLogFilter) ([]ActivityLog, int64, error)
	UpdateAction(ctx context.Context, id string, action string) (ActivityLog, error)
	Delete(ctx context.Context, id string) error
}
