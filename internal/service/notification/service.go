package notification

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
)

type NotificationServiceImpl struct {
	notificationRepo notification.NotificationRepository
	employeeRepo     employee.EmployeeRepository
	departmentRepo   department.DepartmentRepository
}

func NewNotificationService(notificationRepo notification.NotificationRepository, employeeRepo employee.EmployeeRepository, departmentRepo department.DepartmentRepository) notification.NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		employeeRepo:     employeeRepo,
		departmentRepo:   departmentRepo,
	}
}

func mapNotificationToResponse(n notification.Notification) notification.NotificationResponse {
	recipients := n.RecipientIDs
	if recipients == nil {
		recipients = []string{}
	}
	return notification.NotificationResponse{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		RecipientIDs: recipients,
		DepartmentID: n.DepartmentID,
		Urgency:      string(n.Urgency),
		Status:       string(n.Status),
		CreatedBy:    n.CreatedBy,
		CreatedAt:    n.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    n.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// checkAudience verifies that every addressed employee and department exists.
func (s *NotificationServiceImpl) checkAudience(ctx context.Context, recipientIDs []string, departmentID *string) error {
	for _, id := range recipientIDs {
		if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return fmt.Errorf("%w: %s", notification.ErrUnknownRecipient, id)
			}
			return fmt.Errorf("failed to get recipient: %w", err)
		}
	}
	if departmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *departmentID); err != nil {
			if errors.Is(err, department.ErrDepartmentNotFound) {
				return department.ErrDepartmentNotFound
			}
			return fmt.Errorf("failed to get department: %w", err)
		}
	}
	return nil
}

// CreateNotification implements notification.NotificationService.
func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, createdBy string, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}

	departmentID := req.DepartmentID
	if departmentID != nil && *departmentID == "" {
		departmentID = nil
	}
	if err := s.checkAudience(ctx, req.RecipientIDs, departmentID); err != nil {
		return notification.NotificationResponse{}, err
	}

	n := notification.Notification{
		Title:        req.Title,
		Message:      req.Message,
		RecipientIDs: req.RecipientIDs,
		DepartmentID: departmentID,
		Urgency:      notification.UrgencyMedium,
		Status:       notification.StatusActive,
	}
	if req.Urgency != nil {
		n.Urgency = notification.Urgency(*req.Urgency)
	}
	if req.Status != nil {
		n.Status = notification.Status(*req.Status)
	}
	if createdBy != "" {
		n.CreatedBy = &createdBy
	}

	created, err := s.notificationRepo.Create(ctx, n)
	if err != nil {
		return notification.NotificationResponse{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return mapNotificationToResponse(created), nil
}

// GetNotification implements notification.NotificationService.
func (s *NotificationServiceImpl) GetNotification(ctx context.Context, id string) (notification.NotificationResponse, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.NotificationResponse{}, notification.ErrNotificationNotFound
		}
		return notification.NotificationResponse{}, fmt.Errorf("failed to get notification: %w", err)
	}
	return mapNotificationToResponse(n), nil
}

// ListNotifications implements notification.NotificationService.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filter notification.NotificationFilter) (notification.ListNotificationResponse, error) {
	if err := filter.Validate(); err != nil {
		return notification.ListNotificationResponse{}, err
	}

	notifications, total, err := s.notificationRepo.List(ctx, filter)
	if err != nil {
		return notification.ListNotificationResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	data := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		data = append(data, mapNotificationToResponse(n))
	}
	return notification.ListNotificationResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateNotification implements notification.NotificationService.
func (s *NotificationServiceImpl) UpdateNotification(ctx context.Context, req notification.UpdateNotificationRequest) (notification.NotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}

	n, err := s.notificationRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.NotificationResponse{}, notification.ErrNotificationNotFound
		}
		return notification.NotificationResponse{}, fmt.Errorf("failed to get notification: %w", err)
	}

	var newRecipients []string
	var newDepartment *string
	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Message != nil {
		n.Message = *req.Message
	}
	if req.RecipientIDs != nil {
		n.RecipientIDs = slices.Clone(*req.RecipientIDs)
		newRecipients = n.RecipientIDs
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			n.DepartmentID = nil
		} else {
			n.DepartmentID = req.DepartmentID
			newDepartment = req.DepartmentID
		}
	}
	if req.Urgency != nil {
		n.Urgency = notification.Urgency(*req.Urgency)
	}
	if req.Status != nil {
		n.Status = notification.Status(*req.Status)
	}

	if err := s.checkAudience(ctx, newRecipients, newDepartment); err != nil {
		return notification.NotificationResponse{}, err
	}

	updated, err := s.notificationRepo.Update(ctx, n)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.NotificationResponse{}, notification.ErrNotificationNotFound
		}
		return notification.NotificationResponse{}, fmt.Errorf("failed to update notification: %w", err)
	}
	return mapNotificationToResponse(updated), nil
}

// DeleteNotification implements notification.NotificationService.
func (s *NotificationServiceImpl) DeleteNotification(ctx context.Context, id string) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// ListForEmployee implements notification.NotificationService.
func (s *NotificationServiceImpl) ListForEmployee(ctx context.Context, employeeID string) ([]notification.NotificationResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	notifications, err := s.notificationRepo.ListForEmployee(ctx, emp.ID, emp.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, mapNotificationToResponse(n))
	}
	return responses, nil
}

// GetForEmployee implements notification.NotificationService.
func (s *NotificationServiceImpl) GetForEmployee(ctx context.Context, id string, employeeID string) (notification.NotificationResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return notification.NotificationResponse{}, employee.ErrEmployeeNotFound
		}
		return notification.NotificationResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notification.NotificationResponse{}, notification.ErrNotificationNotFound
		}
		return notification.NotificationResponse{}, fmt.Errorf("failed to get notification: %w", err)
	}
	if !n.Reaches(emp.ID, emp.DepartmentID) {
		return notification.NotificationResponse{}, notification.ErrNotificationNotFound
	}
	return mapNotificationToResponse(n), nil
}
