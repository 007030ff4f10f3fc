package notification

import (
	"slices"
	"time"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Notification is an announcement from HR. With no recipients and no
// department it goes to every employee.
type Notification struct {
	ID           string
	Title        string
	Message      string
	RecipientIDs []string
	DepartmentID *string
	Urgency      Urgency
	Status       Status
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (n Notification) IsBroadcast() bool {
	return len(n.RecipientIDs) == 0 && n.DepartmentID == nil
}

// Reaches reports whether an active n is addressed to the employee, either
// directly, through their department, or as a broadcast.
func (n Notification) Reaches(employeeID string, departmentID *string) bool {
	if n.Status != StatusActive {
		return false
	}
	if n.IsBroadcast() || slices.Contains(n.RecipientIDs, employeeID) {
		return true
	}
	return n.DepartmentID != nil && departmentID != nil && *n.DepartmentID == *departmentID
}
