package activitylog

import "time"

// ActivityLog is one audited action taken by a user account.
type ActivityLog struct {
	ID        string
	UserID    string
	UserEmail string
	Action    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
