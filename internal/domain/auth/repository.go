package auth

import "context"

// RefreshTokenRepository stores hashes of issued refresh tokens so they can be revoked.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	// IsRefreshTokenRevoked reports revoked or expired tokens; unknown tokens are an error
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	// RevokeUserRefreshTokens revokes every live refresh token held by userID
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}
