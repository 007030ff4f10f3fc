package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

type principalKey struct{}

// Principal is the authenticated caller taken from access token claims.
type Principal struct {
	UserID     string
	Email      string
	Role       user.Role
	EmployeeID *string
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

// PrincipalFrom returns the caller stored by AuthRequired.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// AuthRequired accepts only verified access tokens. Revoked tokens are reported by isRevoked.
func AuthRequired(isRevoked func(token string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if isRevoked != nil && isRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			role, _ := claims["role"].(string)
			if userID == "" || role == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			p := Principal{UserID: userID, Role: user.Role(role)}
			p.Email, _ = claims["email"].(string)
			if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
				p.EmployeeID = &employeeID
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		}
		return http.HandlerFunc(hfn)
	}
}
