package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError is a request field that failed presence or type checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,          // 2024-12-03T00:00:00-05:00
	"2006-01-02T15:04:05", // 2024-12-03T00:00:00
	"2006-01-02",          // 2024-12-03
	"02/01/2006",          // 03/12/2024
}

// ParseDate parses a request date in any of the accepted layouts.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(field, "invalid date %q", s)
}

// ValidateNonNegative rejects amounts below zero.
func ValidateNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(field, "must be greater than or equal to 0")
	}
	return nil
}

// ValidateRequired rejects blank strings.
func ValidateRequired(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// ParseYear parses a four digit calendar year.
func ParseYear(field, s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1900 || y > 9999 {
		return 0, invalid(field, "invalid year %q", s)
	}
	return y, nil
}
