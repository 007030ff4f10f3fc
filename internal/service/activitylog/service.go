package activitylog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
)

type ActivityLogServiceImpl struct {
	activityLogRepo activitylog.ActivityLogRepository
	userRepo        user.UserRepository
}

func NewActivityLogService(activityLogRepo activitylog.ActivityLogRepository, userRepo user.UserRepository) activitylog.ActivityLogService {
	return &ActivityLogServiceImpl{
		activityLogRepo: activityLogRepo,
		userRepo:        userRepo,
	}
}

func mapActivityLogToResponse(a activitylog.ActivityLog) activitylog.ActivityLogResponse {
	return activitylog.ActivityLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		UserEmail: a.UserEmail,
		Action:    a.Action,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateActivityLog implements activitylog.ActivityLogService.
func (s *ActivityLogServiceImpl) CreateActivityLog(ctx context.Context, actorID string, req activitylog.CreateActivityLogRequest) (activitylog.ActivityLogResponse, error) {
	if err := req.Validate(); err != nil {
		return activitylog.ActivityLogResponse{}, err
	}

	userID := req.UserID
	if userID == "" {
		userID = actorID
	}
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return activitylog.ActivityLogResponse{}, user.ErrUserNotFound
		}
		return activitylog.ActivityLogResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	created, err := s.activityLogRepo.Create(ctx, activitylog.ActivityLog{
		UserID:    actor.ID,
		UserEmail: actor.Email,
		Action:    req.Action,
	})
	if err != nil {
		return activitylog.ActivityLogResponse{}, fmt.Errorf("failed to create activity log: %w", err)
	}
	return mapActivityLogToResponse(created), nil
}

// GetActivityLog implements activitylog.ActivityLogService.
func (s *ActivityLogServiceImpl) GetActivityLog(ctx context.Context, id string) (activitylog.ActivityLogResponse, error) {
	a, err := s.activityLogRepo.GetByID(ctx, id)
	if err != nil {
		return activitylog.ActivityLogResponse{}, err
	}
	return mapActivityLogToResponse(a), nil
}

// ListActivityLogs implements activitylog.ActivityLogService.
func (s *ActivityLogServiceImpl) ListActivityLogs(ctx context.Context, filter activitylog.ActivityLogFilter) (activitylog.ListActivityLogResponse, error) {
	if err := filter.Validate(); err != nil {
		return activitylog.ListActivityLogResponse{}, err
	}

	logs, total, err := s.activityLogRepo.List(ctx, filter)
	if err != nil {
		return activitylog.ListActivityLogResponse{}, fmt.Errorf("failed to list activity logs: %w", err)
	}

	data := make([]activitylog.ActivityLogResponse, 0, len(logs))
	for _, a := range logs {
		data = append(data, mapActivityLogToResponse(a))
	}
	return activitylog.ListActivityLogResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateActivityLog implements activitylog.ActivityLogService.
func (s *ActivityLogServiceImpl) UpdateActivityLog(ctx context.Context, req activitylog.UpdateActivityLogRequest) (activitylog.ActivityLogResponse, error) {
	if err := req.Validate(); err != nil {
		return activitylog.ActivityLogResponse{}, err
	}

	if req.Action == "" {
		return s.GetActivityLog(ctx, req.ID)
	}

	updated, err := s.activityLogRepo.UpdateAction(ctx, req.ID, req.Action)
	if err != nil {
		return activitylog.ActivityLogResponse{}, err
	}
	return mapActivityLogToResponse(updated), nil
}

// DeleteActivityLog implements activitylog.ActivityLogService.
func (s *ActivityLogServiceImpl) DeleteActivityLog(ctx context.Context, id string) error {
	return s.activityLogRepo.Delete(ctx, id)
}
