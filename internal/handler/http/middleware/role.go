package middleware

import (
	"fmt"
	"net/http"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

// RequirePermission checks that the caller's role grants permission.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(p.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, p.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEmployee rejects callers whose account is not linked to an employee record.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok || p.EmployeeID == nil {
			response.Forbidden(w, "This account is not linked to an employee")
			return
		}

		next.ServeHTTP(w, r)
	})
}
