package activitylog

import (
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// CreateActivityLogRequest records an action; without user_id it is attributed to the caller.
type CreateActivityLogRequest struct {
	UserID string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Action string `json:"action" validate:"required,max=500"`
}

func (r *CreateActivityLogRequest) Validate() error {
	r.Action = strings.TrimSpace(r.Action)
	return validator.Struct(r)
}

// UpdateActivityLogRequest rewrites the action text; a blank action keeps the old one.
type UpdateActivityLogRequest struct {
	ID     string `json:"-"`
	Action string `json:"action" validate:"max=500"`
}

func (r *UpdateActivityLogRequest) Validate() error {
	r.Action = strings.TrimSpace(r.Action)
	return validator.Struct(r)
}

type ActivityLogFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *ActivityLogFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.UserID != nil && *f.UserID != "" && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid id"})
	}

	return errs.OrNil()
}

type ActivityLogResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListActivityLogResponse struct {
	Data       []ActivityLogResponse `json:"data"`
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
}
