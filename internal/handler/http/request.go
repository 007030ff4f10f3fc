package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/middleware"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/response"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// decodeJSON reads the request body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func queryString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// queryInts parses integer query parameters. Missing parameters stay nil.
func queryInts(r *http.Request, names ...string) (map[string]*int, error) {
	var errs validator.ValidationErrors
	out := make(map[string]*int, len(names))

	for _, name := range names {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			out[name] = nil
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: name, Message: name + " must be a number"})
			continue
		}
		out[name] = &n
	}

	return out, errs.OrNil()
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// periodFromQuery reads month and year; both are required.
func periodFromQuery(r *http.Request) (attendance.Period, error) {
	ints, err := queryInts(r, "month", "year")
	if err != nil {
		return attendance.Period{}, err
	}
	p := attendance.Period{Month: intOr(ints["month"], 0), Year: intOr(ints["year"], 0)}
	return p, p.Validate()
}

func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return p, ok
}

// ownsEmployeeRecord reports whether the caller may read a record of employeeID.
func ownsEmployeeRecord(p middleware.Principal, employeeID string) error {
	if p.IsAdmin() || (p.EmployeeID != nil && *p.EmployeeID == employeeID) {
		return nil
	}
	return user.ErrNotOwnRecord
}

func validatorError(field, message string) error {
	return validator.ValidationErrors{{Field: field, Message: message}}
}
