package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
)

type refreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// hashToken stores refresh tokens as base64 SHA-256 digests, never in plain text.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, hashToken(token), time.Unix(expiresAt, 0).UTC(), session.UserAgent, session.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	q := GetQuerier(ctx, r.db)

	var (
		userID    string
		revokedAt *time.Time
		expiresAt time.Time
	)
	err := q.QueryRow(ctx, `
		SELECT user_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`, hashToken(token)).Scan(&userID, &revokedAt, &expiresAt)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	return userID, revokedAt != nil || !expiresAt.After(time.Now()), nil
}

func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens implements auth.RefreshTokenRepository.
func (r *refreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
