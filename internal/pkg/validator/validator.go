package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// OrNil returns nil for an empty list so callers can `return errs.OrNil()`.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidClock checks a 24h "HH:MM" time of day.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// HasMaxDecimals reports whether d fits in the given number of fractional digits.
func HasMaxDecimals(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// FloatHasMaxDecimals is HasMaxDecimals for a float64 input.
func FloatHasMaxDecimals(f float64, places int32) bool {
	return HasMaxDecimals(decimal.NewFromFloat(f), places)
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	// Try RFC3339 format (ISO8601 with timezone)
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	// Try RFC3339Nano format (with nanoseconds)
	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

var (
	structValidator     *playground.Validate
	structValidatorOnce sync.Once
)

func engine() *playground.Validate {
	structValidatorOnce.Do(func() {
		structValidator = playground.New(playground.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structValidator
}

// Struct runs the `validate` struct tags of v and converts failures into ValidationErrors
// keyed by json field name.
func Struct(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: tagMessage(fe),
		})
	}
	return errs
}

func tagMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be less than or equal to " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
