package attendance

type DayKind int

const (
	DayAbsent DayKind = iota
	DayPresent
	DayOnLeave
)

func (k DayKind) String() string {
	switch k {
	case DayPresent:
		return "present"
	case DayOnLeave:
		return "on_leave"
	default:
		return "absent"
	}
}

// DayOutcome is the single classification of one attendance record.
// LeaveType and LeaveDays are set only for DayOnLeave.
type DayOutcome struct {
	Kind      DayKind
	LeaveType string
	LeaveDays float64
}

// Classify decides whether a record counts as present, absent or on leave.
// A leave record without a day count consumes defaultLeaveDays.
func Classify(a Attendance, defaultLeaveDays float64) DayOutcome {
	switch {
	case a.IsLeave:
		days := defaultLeaveDays
		if a.LeaveDays != nil && *a.LeaveDays > 0 {
			days = *a.LeaveDays
		}
		var leaveType string
		if a.LeaveType != nil {
			leaveType = *a.LeaveType
		}
		return DayOutcome{Kind: DayOnLeave, LeaveType: leaveType, LeaveDays: days}
	case a.CheckIn == nil || a.CheckOut == nil:
		// a stored record with no complete pair of times is an absence, not a missing day
		return DayOutcome{Kind: DayAbsent}
	default:
		return DayOutcome{Kind: DayPresent}
	}
}
