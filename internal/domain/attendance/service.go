package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the employee and evaluates lateness
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record and evaluates early departure and overtime
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance applies a partial update and re-evaluates derived fields
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	ListByEmployee(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetSummary aggregates one employee's month
	GetSummary(ctx context.Context, employeeID string, period Period) (SummaryResponse, error)

	// GetMonthly aggregates every employee's month
	GetMonthly(ctx context.Context, period Period) (MonthlyResponse, error)

	// MarkAbsent stores an empty record for every active employee without one on a workday
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}
