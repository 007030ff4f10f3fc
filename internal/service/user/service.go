package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
)

type UserServiceImpl struct {
	tx               database.Transactor
	userRepo         user.UserRepository
	refreshTokenRepo auth.RefreshTokenRepository
}

func NewUserService(tx database.Transactor, userRepo user.UserRepository, refreshTokenRepo auth.RefreshTokenRepository) user.UserService {
	return &UserServiceImpl{
		tx:               tx,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter user.UserFilter) ([]user.UserResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var role *user.Role
	if filter.Role != nil {
		r := user.Role(*filter.Role)
		role = &r
	}

	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.ToResponse(u), nil
}

// UpdateUser implements user.UserService. A role or email change ends the account's sessions.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, actorID string, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if req.ID == actorID && req.Role != nil && user.Role(*req.Role) != user.RoleAdmin {
		return user.UserResponse{}, user.ErrCannotModifySelf
	}

	var updated user.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.userRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		changed := false
		if req.Email != nil && *req.Email != u.Email {
			u.Email = *req.Email
			changed = true
		}
		if req.Role != nil && user.Role(*req.Role) != u.Role {
			u.Role = user.Role(*req.Role)
			changed = true
		}

		updated, err = s.userRepo.Update(ctx, u)
		if err != nil {
			return err
		}
		if changed {
			if err := s.refreshTokenRepo.RevokeUserRefreshTokens(ctx, u.ID); err != nil {
				return fmt.Errorf("failed to revoke refresh tokens: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return user.UserResponse{}, user.ErrUserNotFound
		case errors.Is(err, user.ErrUserEmailExists):
			return user.UserResponse{}, user.ErrUserEmailExists
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user.ToResponse(updated), nil
}

// DeleteUser implements user.UserService. The linked employee record is kept.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actorID string, id string) error {
	if id == actorID {
		return user.ErrCannotModifySelf
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.refreshTokenRepo.RevokeUserRefreshTokens(ctx, id); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
