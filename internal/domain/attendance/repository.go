package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same employee and date
	// fails with ErrAttendanceAlreadyExists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no record for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	Delete(ctx context.Context, id string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByRange returns every record dated in [from, to), with employee name and
	// department joined. An empty employeeID means all employees.
	ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
