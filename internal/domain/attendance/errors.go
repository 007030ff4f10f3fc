package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrOnLeave           = errors.New("today is recorded as a leave day")

	// Validation errors
	ErrCheckOutBeforeCheckIn = errors.New("check-out time must not be before check-in time")
	ErrInvalidPeriod         = errors.New("invalid month or year")
	ErrInvalidPolicy         = errors.New("invalid attendance policy")

	// General errors
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceAlreadyExists = errors.New("attendance for this employee and date already exists")
)
