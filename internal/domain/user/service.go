package user

import "context"

// UserService is the admin surface over login accounts. actorID is the admin making the call.
type UserService interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]UserResponse, error)
	GetUser(ctx context.Context, id string) (UserResponse, error)
	UpdateUser(ctx context.Context, actorID string, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, actorID string, id string) error
}
