package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
)

var errRefreshTokenUnknown = errors.New("refresh token not found")

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]refreshToken
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: make(map[string]refreshToken)}
}

func (r *RefreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r *RefreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return "", false, errRefreshTokenUnknown
	}
	return t.userID, t.revoked || !t.expiresAt.After(time.Now()), nil
}

func (r *RefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tokens[token]; ok {
		t.revoked = true
		r.tokens[token] = t
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
			r.tokens[token] = t
		}
	}
	return nil
}
