package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownRecipient     = errors.New("notification recipient is not an employee")
)
