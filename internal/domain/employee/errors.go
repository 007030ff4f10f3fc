package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidWorkHours   = errors.New("work_end must be after work_start")
)
