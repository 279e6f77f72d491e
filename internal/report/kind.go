package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind selects a report layout.
type Kind string

const (
	KindFormato71 Kind = "formato71"
	KindSummary   Kind = "resumen"
	KindMovements Kind = "movimientos"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("tipo de reporte desconocido")

var kindAliases = map[string]Kind{
	"formato71":   KindFormato71,
	"full-format": KindFormato71,
	"resumen":     KindSummary,
	"summary":     KindSummary,
	"movimientos": KindMovements,
	"movements":   KindMovements,
}

// ParseKind accepts the Spanish names and their English aliases.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// AllPeriods is the period value meaning every year.
const AllPeriods = "todos"

// Period is a calendar year or every year.
type Period struct {
	Year int
	All  bool
}

// ParsePeriod parses a year or "todos".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllPeriods) {
		return Period{All: true}, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return Period{}, fmt.Errorf("periodo inválido %q", s)
	}
	return Period{Year: y}, nil
}

func (p Period) String() string {
	if p.All {
		return AllPeriods
	}
	return strconv.Itoa(p.Year)
}

// Includes reports whether year y falls in the period.
func (p Period) Includes(y int) bool {
	return p.All || p.Year == y
}

// FileName is the download name of an exported report. tipo is the name
// the caller asked for, so an alias keeps its own spelling.
func FileName(tipo string, p Period) string {
	return fmt.Sprintf("reporte-%s-%s.xlsx", strings.ToLower(strings.TrimSpace(tipo)), p)
}
