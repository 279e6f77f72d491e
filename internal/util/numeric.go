package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumericValue coerces a spreadsheet cell into a numeric string.
// Numbers pass through, strings keep only digits, '.' and '-', and anything
// that does not end up as a number (empty text, dates, booleans) is "0".
func ParseNumericValue(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case decimal.Decimal:
		return x.String()
	case string:
		s := nonNumeric.ReplaceAllString(x, "")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return "0"
		}
		return s
	case time.Time:
		return "0"
	}
	return "0"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseAmount parses s as a decimal; blank or malformed input is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundDisplay rounds to the two decimals shown on reports, half away from zero.
func RoundDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders d with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
