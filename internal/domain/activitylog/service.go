package activitylog

import "context"

type ActivityLogService interface {
	CreateActivityLog(ctx context.Context, actorID string, req CreateActivityLogRequest) (ActivityLogResponse, error)
	GetActivityLog(ctx context.Context, id string) (ActivityLogResponse, error)
	ListActivityLogs(ctx context.Context, filter ActivityLogFilter) (ListActivityLogResponse, error)
	UpdateActivityLog(ctx context.Context, req UpdateActivityLogRequest) (ActivityLogResponse, error)
	DeleteActivityLog(ctx context.Context, id string) error
}
