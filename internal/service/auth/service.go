package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(tx database.Transactor, userRepository user.UserRepository, jwtService jwt.Service, refreshTokenRepository auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(loginReq.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.CreateRefreshToken(ctx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, isRevoked, err := a.IsRefreshTokenRevoked(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RevokeRefreshToken(ctx, token); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	token, err := jwtauth.VerifyToken(a.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// The store is checked with the raw token; it hashes internally.
	userID, isRevoked, err := a.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrUserNotFound
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return resp, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, auth.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.ToResponse(userData), nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := a.UserRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Email:        email,
		PasswordHash: &hashed,
		Role:         user.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("bootstrap admin created", "user_id", created.ID, "email", created.Email)
	return nil
}
