package validator

import (
	"regexp"
	"strings"
	"time"
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

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// OrNil returns nil for an empty set so callers can `return errs.OrNil()`.
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

// Username validation: 3-50 chars, A-Z, a-z, 0-9, ., _, -
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

const DateLayout = "2006-01-02"

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// ValidateDateRange checks optional YYYY-MM-DD bounds and their order.
// Field names are reported as given so query and body callers keep their own naming.
func ValidateDateRange(startField string, start *string, endField string, end *string) ValidationErrors {
	var errs ValidationErrors
	var from, to time.Time
	var hasFrom, hasTo bool

	if start != nil && *start != "" {
		if from, hasFrom = IsValidDate(*start); !hasFrom {
			errs.Add(startField, startField+" must be in YYYY-MM-DD format")
		}
	}
	if end != nil && *end != "" {
		if to, hasTo = IsValidDate(*end); !hasTo {
			errs.Add(endField, endField+" must be in YYYY-MM-DD format")
		}
	}
	if hasFrom && hasTo && to.Before(from) {
		errs.Add(endField, endField+" must not be before "+startField)
	}
	return errs
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

// IsValidLatitude reports whether lat is within [-90, 90].
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude reports whether lng is within [-180, 180].
func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
