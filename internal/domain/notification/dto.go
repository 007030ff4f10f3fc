package notification

import (
	"fmt"
	"strings"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

var (
	Urgencies = []string{string(UrgencyLow), string(UrgencyMedium), string(UrgencyHigh)}
	Statuses  = []string{string(StatusActive), string(StatusArchived)}
)

type CreateNotificationRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Message      string   `json:"message" validate:"required"`
	RecipientIDs []string `json:"recipients,omitempty"`
	DepartmentID *string  `json:"department_id,omitempty"`
	Urgency      *string  `json:"urgency,omitempty" validate:"omitempty,oneof=low medium high"`
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

func (r *CreateNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, structErrs...)
	}
	errs = append(errs, validateRecipients(r.RecipientIDs)...)

	return errs.OrNil()
}

// UpdateNotificationRequest replaces only the fields that are set. An empty
// recipients list or department_id "" widens the audience again.
type UpdateNotificationRequest struct {
	ID           string    `json:"-"`
	Title        *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Message      *string   `json:"message,omitempty" validate:"omitempty,min=1"`
	RecipientIDs *[]string `json:"recipients,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	Urgency      *string   `json:"urgency,omitempty" validate:"omitempty,oneof=low medium high"`
	Status       *string   `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

func (r *UpdateNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
	}
	if r.Message != nil {
		message := strings.TrimSpace(*r.Message)
		r.Message = &message
	}
	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, structErrs...)
	}
	if r.RecipientIDs != nil {
		errs = append(errs, validateRecipients(*r.RecipientIDs)...)
	}

	return errs.OrNil()
}

func validateRecipients(ids []string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		field := fmt.Sprintf("recipients[%d]", i)
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "recipient must be an employee id"})
			continue
		}
		if seen[id] {
			errs = append(errs, validator.ValidationError{Field: field, Message: "recipient is listed twice"})
		}
		seen[id] = true
	}

	return errs
}

type NotificationFilter struct {
	Status       *string `json:"status,omitempty"`
	Urgency      *string `json:"urgency,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *NotificationFilter) Validate() error {
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

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(Statuses, ", ")})
	}
	if f.Urgency != nil && !validator.IsInSlice(*f.Urgency, Urgencies) {
		errs = append(errs, validator.ValidationError{Field: "urgency", Message: "urgency must be one of: " + strings.Join(Urgencies, ", ")})
	}

	return errs.OrNil()
}

type NotificationResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	RecipientIDs []string `json:"recipients"`
	DepartmentID *string  `json:"department_id,omitempty"`
	Urgency      string   `json:"urgency"`
	Status       string   `json:"status"`
	CreatedBy    *string  `json:"created_by,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ListNotificationResponse struct {
	Data       []NotificationResponse `json:"data"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
}
