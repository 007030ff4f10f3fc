package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
)

const RegularAttendance = "Regular attendance"

// CheckOutResult holds what a check-out timestamp derives.
// OvertimeStart and OvertimeEnd are empty unless OvertimeHours > 0.
type CheckOutResult struct {
	IsEarlyDeparture bool
	OvertimeHours    float64
	OvertimeStart    string
	OvertimeEnd      string
}

type WorkingHours struct {
	Label string
	Hours float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EvaluateCheckIn reports whether ts is after the work start of its calendar day.
// A check-in exactly at work start is on time.
func EvaluateCheckIn(ts time.Time, policy attendance.Policy) bool {
	return ts.After(policy.WorkStartOn(ts))
}

// EvaluateCheckOut derives early departure and overtime from a check-out timestamp.
func EvaluateCheckOut(ts time.Time, policy attendance.Policy) CheckOutResult {
	end := policy.WorkEndOn(ts)

	switch {
	case ts.Before(end):
		return CheckOutResult{IsEarlyDeparture: true}
	case ts.After(end):
		local := ts.In(policy.Loc())
		return CheckOutResult{
			OvertimeHours: round2(ts.Sub(end).Hours()),
			OvertimeStart: policy.WorkEnd.String(),
			OvertimeEnd:   fmt.Sprintf("%02d:%02d", local.Hour(), local.Minute()),
		}
	default:
		return CheckOutResult{}
	}
}

// ComputeWorkingHours returns nil unless both timestamps are present.
func ComputeWorkingHours(checkIn, checkOut *time.Time) (*WorkingHours, error) {
	if checkIn == nil || checkOut == nil {
		return nil, nil
	}
	if checkOut.Before(*checkIn) {
		return nil, attendance.ErrCheckOutBeforeCheckIn
	}

	d := checkOut.Sub(*checkIn)
	totalMinutes := int(d / time.Minute)
	return &WorkingHours{
		Label: fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60),
		Hours: round2(d.Hours()),
	}, nil
}

// BuildRemarks renders the human readable notes of a record in a fixed order:
// late, early departure, leave, overtime, then the free text note.
func BuildRemarks(a attendance.Attendance) string {
	var parts []string

	if a.IsLate != nil && *a.IsLate {
		parts = append(parts, "Late arrival.")
	}
	if a.IsEarlyDeparture != nil && *a.IsEarlyDeparture {
		parts = append(parts, "Early departure.")
	}
	if a.IsLeave {
		leaveType := "unspecified"
		if a.LeaveType != nil && *a.LeaveType != "" {
			leaveType = *a.LeaveType
		}
		reason := "no reason provided"
		if a.LeaveReason != nil && strings.TrimSpace(*a.LeaveReason) != "" {
			reason = strings.TrimSpace(*a.LeaveReason)
		}
		parts = append(parts, fmt.Sprintf("%s Leave: %s.", leaveType, reason))
	}
	if a.OvertimeHours != nil && *a.OvertimeHours > 0 {
		reason := "no reason provided"
		if a.OvertimeReason != nil && strings.TrimSpace(*a.OvertimeReason) != "" {
			reason = strings.TrimSpace(*a.OvertimeReason)
		}
		parts = append(parts, fmt.Sprintf("Overtime: %s hours (%s).", formatHours(*a.OvertimeHours), reason))
	}
	if a.Note != nil && strings.TrimSpace(*a.Note) != "" {
		parts = append(parts, strings.TrimSpace(*a.Note))
	}

	if len(parts) == 0 {
		return RegularAttendance
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func formatHours(h float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}

// Evaluate recomputes every derived field of a record against policy.
// Leave days are never late, early or overtime.
func Evaluate(a attendance.Attendance, policy attendance.Policy) (attendance.Attendance, error) {
	if a.CheckIn != nil && a.CheckOut != nil && a.CheckOut.Before(*a.CheckIn) {
		return attendance.Attendance{}, attendance.ErrCheckOutBeforeCheckIn
	}

	a.IsLate = nil
	a.IsEarlyDeparture = nil
	a.OvertimeHours = nil
	a.OvertimeStart = nil
	a.OvertimeEnd = nil

	if a.IsLeave {
		notLate, notEarly := false, false
		a.IsLate = &notLate
		a.IsEarlyDeparture = &notEarly
		return a, nil
	}

	if a.CheckIn != nil {
		late := EvaluateCheckIn(*a.CheckIn, policy)
		a.IsLate = &late
	}

	if a.CheckOut != nil {
		result := EvaluateCheckOut(*a.CheckOut, policy)
		a.IsEarlyDeparture = &result.IsEarlyDeparture
		hours := result.OvertimeHours
		a.OvertimeHours = &hours
		if result.OvertimeHours > 0 {
			a.OvertimeStart = &result.OvertimeStart
			a.OvertimeEnd = &result.OvertimeEnd
		}
	}

	return a, nil
}
