package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrInvalidPasswordLength   = errors.New("password must be at least 8 characters")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNotOwnRecord            = errors.New("employees can only access their own records")
	ErrCannotModifySelf        = errors.New("admins cannot delete or demote their own account")
)
