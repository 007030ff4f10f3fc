package notification

import "context"

type NotificationService interface {
	CreateNotification(ctx context.Context, createdBy string, req CreateNotificationRequest) (NotificationResponse, error)
	GetNotification(ctx context.Context, id string) (NotificationResponse, error)
	ListNotifications(ctx context.Context, filter NotificationFilter) (ListNotificationResponse, error)
	UpdateNotification(ctx context.Context, req UpdateNotificationRequest) (NotificationResponse, error)
	DeleteNotification(ctx context.Context, id string) error

	// ListForEmployee is the employee's feed of active notifications
	ListForEmployee(ctx context.Context, employeeID string) ([]NotificationResponse, error)
	// GetForEmployee hides notifications that do not reach the employee behind ErrNotificationNotFound
	GetForEmployee(ctx context.Context, id string, employeeID string) (NotificationResponse, error)
}
