package attendance

import (
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
)

// Period identifies one calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Validate() error {
	var errs validator.ValidationErrors

	if p.Month < 1 || p.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if p.Year < 2000 || p.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	return errs.OrNil()
}

// Range returns the first day of the month and the first day of the following month.
func (p Period) Range() (time.Time, time.Time) {
	from := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	from, _ := p.Range()
	prev := from.AddDate(0, -1, 0)
	return Period{Month: int(prev.Month()), Year: prev.Year()}
}

func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}
