package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if !p.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SelfOrAdmin lets an employee through only when the URL parameter param names
// their own employee id. Admins always pass.
func SelfOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !p.IsAdmin() && (p.EmployeeID == nil || *p.EmployeeID != chi.URLParam(r, param)) {
				response.HandleError(w, user.ErrNotOwnRecord)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
