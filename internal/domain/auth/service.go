package auth

import (
	"context"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)

	// EnsureAdmin creates the bootstrap administrator account when no user holds the email
	EnsureAdmin(ctx context.Context, email, password string) error
}
