package util

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)
	testCases := []string{
		"2024-12-03",
		"2024-12-03T00:00:00",
		"2024-12-03T00:00:00Z",
		"03/12/2024",
		"  2024-12-03 ",
	}

	for _, s := range testCases {
		got, err := ParseDate("fechaUso", s)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2024-13-40"} {
		_, err := ParseDate("fechaUso", s)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ParseDate(%q) error = %v, want *ValidationError", s, err)
			continue
		}
		if verr.Field != "fechaUso" {
			t.Errorf("Field = %q", verr.Field)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("mejoras", decimal.Zero); err != nil {
		t.Errorf("zero: %v", err)
	}
	if err := ValidateNonNegative("mejoras", decimal.RequireFromString("10.5")); err != nil {
		t.Errorf("positive: %v", err)
	}
	if err := ValidateNonNegative("mejoras", decimal.RequireFromString("-0.01")); err == nil {
		t.Error("negative: error = nil, want error")
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("codigoActivo", "AF-001"); err != nil {
		t.Errorf("ValidateRequired: %v", err)
	}
	if err := ValidateRequired("codigoActivo", "   "); err == nil {
		t.Error("blank: error = nil, want error")
	}
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear("anio", "2024")
	if err != nil || y != 2024 {
		t.Errorf("ParseYear(2024) = %d, %v", y, err)
	}
	for _, s := range []string{"", "abc", "24", "10000"} {
		if _, err := ParseYear("anio", s); err == nil {
			t.Errorf("ParseYear(%q) error = nil, want error", s)
		}
	}
}
