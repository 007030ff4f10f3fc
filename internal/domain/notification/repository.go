package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	GetByID(ctx context.Context, id string) (Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]Notification, int64, error)
	// ListForEmployee returns the active notifications that reach the employee, newest first
	ListForEmployee(ctx context.Context, employeeID string, departmentID *string) ([]Notification, error)
	Update(ctx context.Context, n Notification) (Notification, error)
	Delete(ctx context.Context, id string) error
}
