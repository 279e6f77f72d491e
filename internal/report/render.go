package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reporte"

// Rows of the header block; the table starts at tableRow.
const (
	titleRow   = 1
	periodRow  = 3
	rucRow     = 4
	nameRow    = 5
	tableRow   = 7
	amountsFmt = 2 // builtin "0.00"
)

type styles struct {
	bold, group, header, text, number, totalText, totalNumber int
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	right := &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	bold := &excelize.Font{Bold: true}

	s := &styles{}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.bold, &excelize.Style{Font: bold}},
		{&s.group, &excelize.Style{
			Font:      bold,
			Border:    border,
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E7E6E6"}},
			Alignment: center,
		}},
		{&s.header, &excelize.Style{Font: bold, Border: border, Alignment: center}},
		{&s.text, &excelize.Style{Border: border, Alignment: left}},
		{&s.number, &excelize.Style{Border: border, NumFmt: amountsFmt, Alignment: right}},
		{&s.totalText, &excelize.Style{Font: bold, Border: border, Alignment: left}},
		{&s.totalNumber, &excelize.Style{Font: bold, Border: border, NumFmt: amountsFmt, Alignment: right}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("new style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// Render writes s as a single-sheet XLSX workbook.
func Render(w io.Writer, s *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}
	r := &renderer{f: f, st: st}

	r.headerBlock(s)
	row := tableRow
	if len(s.Groups) > 0 {
		r.groupRow(row, s.Groups)
		row++
	}
	r.columnRow(row, s.Columns)
	for _, data := range s.Rows {
		row++
		r.dataRow(row, s.Columns, data, false)
	}
	if len(s.Rows) > 0 {
		row++
		r.dataRow(row, s.Columns, s.Totals, true)
	}
	r.widths(s.Columns)

	if r.err != nil {
		return fmt.Errorf("render %s: %w", s.Kind, r.err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// renderer keeps the first error so the layout code stays linear.
type renderer struct {
	f   *excelize.File
	st  *styles
	err error
}

func (r *renderer) do(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (r *renderer) headerBlock(s *Sheet) {
	last := len(s.Columns)
	if last < 2 {
		last = 2
	}
	r.do(r.f.SetCellValue(sheetName, cell(1, titleRow), s.Title))
	r.do(r.f.MergeCell(sheetName, cell(1, titleRow), cell(last, titleRow)))
	r.do(r.f.SetCellStyle(sheetName, cell(1, titleRow), cell(1, titleRow), r.st.bold))

	labels := []struct {
		row          int
		label, value string
	}{
		{periodRow, "PERIODO:", s.Period},
		{rucRow, "RUC:", s.Company.RUC},
		{nameRow, "APELLIDOS Y NOMBRES, DENOMINACIÓN O RAZÓN SOCIAL:", s.Company.LegalName},
	}
	for _, l := range labels {
		r.do(r.f.SetCellValue(sheetName, cell(1, l.row), l.label))
		r.do(r.f.SetCellValue(sheetName, cell(2, l.row), l.value))
		r.do(r.f.SetCellStyle(sheetName, cell(1, l.row), cell(1, l.row), r.st.bold))
	}
}

func (r *renderer) groupRow(row int, groups []Group) {
	col := 1
	for _, g := range groups {
		first, last := cell(col, row), cell(col+g.Span-1, row)
		r.do(r.f.SetCellValue(sheetName, first, g.Title))
		if g.Span > 1 {
			r.do(r.f.MergeCell(sheetName, first, last))
		}
		r.do(r.f.SetCellStyle(sheetName, first, last, r.st.group))
		col += g.Span
	}
}

func (r *renderer) columnRow(row int, cols []Column) {
	for i, c := range cols {
		r.do(r.f.SetCellValue(sheetName, cell(i+1, row), c.Header))
	}
	if len(cols) > 0 {
		r.do(r.f.SetCellStyle(sheetName, cell(1, row), cell(len(cols), row), r.st.header))
	}
	r.do(r.f.SetRowHeight(sheetName, row, 45))
}

func (r *renderer) dataRow(row int, cols []Column, values map[string]string, total bool) {
	textStyle, numStyle := r.st.text, r.st.number
	if total {
		textStyle, numStyle = r.st.totalText, r.st.totalNumber
	}
	for i, c := range cols {
		ref := cell(i+1, row)
		v, ok := values[c.Key]
		if c.Numeric && ok {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				r.do(r.f.SetCellFloat(sheetName, ref, n, 2, 64))
			} else {
				r.do(r.f.SetCellStr(sheetName, ref, v))
			}
		} else if v != "" {
			r.do(r.f.SetCellStr(sheetName, ref, v))
		}

		style := textStyle
		if c.Numeric {
			style = numStyle
		}
		r.do(r.f.SetCellStyle(sheetName, ref, ref, style))
	}
}

func (r *renderer) widths(cols []Column) {
	for i, c := range cols {
		w := c.Width
		if w == 0 {
			w = 15
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			r.do(err)
			return
		}
		r.do(r.f.SetColWidth(sheetName, name, name, w))
	}
}
