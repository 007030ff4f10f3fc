package attendance

import (
	"fmt"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
)

const DefaultWorkdayRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	if !validator.IsValidClock(s) {
		return ClockTime{}, fmt.Errorf("%w: %q is not a HH:MM time", ErrInvalidPolicy, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant c on the calendar day of day, interpreted in loc.
func (c ClockTime) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// Policy holds the organisation rules attendance and payroll are evaluated against.
type Policy struct {
	WorkStart           ClockTime
	WorkEnd             ClockTime
	Location            *time.Location
	DefaultLeaveDays    float64
	OvertimeRatePerHour decimal.Decimal
	WorkdayRule         string
}

func DefaultPolicy() Policy {
	return Policy{
		WorkStart:           ClockTime{Hour: 8},
		WorkEnd:             ClockTime{Hour: 17},
		Location:            time.Local,
		DefaultLeaveDays:    1,
		OvertimeRatePerHour: decimal.Zero,
		WorkdayRule:         DefaultWorkdayRule,
	}
}

func (p Policy) Validate() error {
	if p.WorkEnd.minutes() <= p.WorkStart.minutes() {
		return fmt.Errorf("%w: work end %s must be after work start %s", ErrInvalidPolicy, p.WorkEnd, p.WorkStart)
	}
	if p.DefaultLeaveDays <= 0 {
		return fmt.Errorf("%w: default leave days must be positive", ErrInvalidPolicy)
	}
	if p.OvertimeRatePerHour.IsNegative() {
		return fmt.Errorf("%w: overtime rate must not be negative", ErrInvalidPolicy)
	}
	if _, err := rrule.StrToROption(p.workdayRule()); err != nil {
		return fmt.Errorf("%w: workday rule: %v", ErrInvalidPolicy, err)
	}
	return nil
}

func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p Policy) workdayRule() string {
	if p.WorkdayRule == "" {
		return DefaultWorkdayRule
	}
	return p.WorkdayRule
}

// WorkStartOn returns the work start instant of the calendar day containing ts.
func (p Policy) WorkStartOn(ts time.Time) time.Time {
	return p.WorkStart.On(ts.In(p.Loc()), p.Loc())
}

// WorkEndOn returns the work end instant of the calendar day containing ts.
func (p Policy) WorkEndOn(ts time.Time) time.Time {
	return p.WorkEnd.On(ts.In(p.Loc()), p.Loc())
}

// DateOf returns the calendar date of ts in the policy location, as a UTC midnight value.
func (p Policy) DateOf(ts time.Time) time.Time {
	y, m, d := ts.In(p.Loc()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithWorkHours returns a copy of p using an employee's own work hours.
// A nil value keeps the organisation default.
func (p Policy) WithWorkHours(start, end *string) (Policy, error) {
	out := p
	if start != nil && *start != "" {
		c, err := ParseClockTime(*start)
		if err != nil {
			return Policy{}, err
		}
		out.WorkStart = c
	}
	if end != nil && *end != "" {
		c, err := ParseClockTime(*end)
		if err != nil {
			return Policy{}, err
		}
		out.WorkEnd = c
	}
	if out.WorkEnd.minutes() <= out.WorkStart.minutes() {
		return Policy{}, fmt.Errorf("%w: work end %s must be after work start %s", ErrInvalidPolicy, out.WorkEnd, out.WorkStart)
	}
	return out, nil
}

func (p Policy) workdayRRule(dtstart time.Time) (*rrule.RRule, error) {
	opt, err := rrule.StrToROption(p.workdayRule())
	if err != nil {
		return nil, fmt.Errorf("%w: workday rule: %v", ErrInvalidPolicy, err)
	}
	opt.Dtstart = dtstart

	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: workday rule: %v", ErrInvalidPolicy, err)
	}
	return rr, nil
}

// IsWorkday reports whether the calendar date of date is matched by the workday rule.
func (p Policy) IsWorkday(date time.Time) (bool, error) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	rr, err := p.workdayRRule(day)
	if err != nil {
		return false, err
	}
	return len(rr.Between(day, day.Add(24*time.Hour-time.Second), true)) > 0, nil
}

// ScheduledWorkdays counts the days of the given month matched by the workday rule.
func (p Policy) ScheduledWorkdays(month, year int) (int, error) {
	if err := (Period{Month: month, Year: year}).Validate(); err != nil {
		return 0, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	rr, err := p.workdayRRule(start)
	if err != nil {
		return 0, err
	}

	set := rrule.Set{}
	set.RRule(rr)
	return len(set.Between(start, end, true)), nil
}
