package report

import (
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/shopspring/decimal"
)

// TotalsLabel heads the grand totals row.
const TotalsLabel = "TOTALES"

// Column describes one report column.
type Column struct {
	Key     string  `json:"key"`
	Header  string  `json:"header"`
	Numeric bool    `json:"numeric"`
	Total   bool    `json:"total"`
	Width   float64 `json:"-"`
}

// Group is a header spanning Span consecutive columns.
type Group struct {
	Title string `json:"titulo"`
	Span  int    `json:"columnas"`
}

// Company is the header block of a report.
type Company struct {
	RUC       string `json:"ruc"`
	LegalName string `json:"razonSocial"`
}

// Sheet is a built report: what is shown on screen and written to XLSX.
// Cell values are display strings; numeric cells carry two decimals.
type Sheet struct {
	Kind    Kind                `json:"tipo"`
	Title   string              `json:"titulo"`
	Period  string              `json:"periodo"`
	Company Company             `json:"empresa"`
	Groups  []Group             `json:"grupos,omitempty"`
	Columns []Column            `json:"columnas"`
	Rows    []map[string]string `json:"filas"`
	Totals  map[string]string   `json:"totales"`
	// LabelKey is the column holding TotalsLabel in the totals row.
	LabelKey string `json:"-"`
}

// computeTotals sums every totalled column over the displayed values, so a
// total always equals the sum of the cells above it.
func (s *Sheet) computeTotals() {
	s.Totals = map[string]string{}
	for _, col := range s.Columns {
		if !col.Total {
			continue
		}
		sum := decimal.Zero
		for _, row := range s.Rows {
			sum = sum.Add(util.ParseAmount(row[col.Key]))
		}
		s.Totals[col.Key] = util.FormatAmount(sum)
	}
	if s.LabelKey != "" {
		s.Totals[s.LabelKey] = TotalsLabel
	}
}

// amount renders d as a report cell.
func amount(d decimal.Decimal) string {
	return util.FormatAmount(util.RoundDisplay(d))
}
