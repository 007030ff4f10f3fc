package auth

import "github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if len(r.Email) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 254 characters",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters long",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
