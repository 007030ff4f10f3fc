package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Create fails with ErrUserEmailExists on a duplicate email
	Create(ctx context.Context, newUser User) (User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// List returns accounts ordered by email, optionally narrowed to one role
	List(ctx context.Context, role *Role) ([]User, error)
	// Update stores email and role; fails with ErrUserEmailExists on a duplicate email
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
}
