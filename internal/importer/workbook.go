package importer

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no se encontró ningún archivo")
	// ErrNotWorkbook is returned when the upload is not an XLSX container.
	ErrNotWorkbook = errors.New("el archivo no es un libro de Excel")
	// ErrNoWorksheet is returned for a workbook without sheets.
	ErrNoWorksheet = errors.New("no se pudo leer la hoja de cálculo")
)

// ParseError reports a workbook that could not be read.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Row maps header text to the raw cell value of one data row. Values are
// float64, string, bool or time.Time. Empty cells are absent.
type Row map[string]interface{}

// Sheet is the parsed first worksheet of an upload. RowNumbers holds the
// 1-based worksheet row of each entry in Rows.
type Sheet struct {
	Headers    []string
	Rows       []Row
	RowNumbers []int
}

// RowNumber returns the worksheet row of Rows[idx].
func (s *Sheet) RowNumber(idx int) int {
	if idx < len(s.RowNumbers) {
		return s.RowNumbers[idx]
	}
	return idx + 2
}

// ParseWorkbook reads the first worksheet of an XLSX stream. Row 1 holds
// the headers; each later non-empty row becomes a Row.
func ParseWorkbook(r io.Reader) (*Sheet, error) {
	if r == nil {
		return nil, &ParseError{Op: "read upload", Err: ErrNoFile}
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Op: "open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Op: "read worksheet", Err: ErrNoWorksheet}
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Op: "read rows", Err: err}
	}

	out := &Sheet{Headers: []string{}, Rows: []Row{}, RowNumbers: []int{}}
	if len(rows) == 0 {
		return out, nil
	}
	for _, h := range rows[0] {
		out.Headers = append(out.Headers, strings.TrimSpace(h))
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	c := &cellReader{f: f, sheet: name, date1904: date1904, dateStyles: map[int]bool{}}

	for i, raw := range rows[1:] {
		rowNum := i + 2
		row := Row{}
		for col, h := range out.Headers {
			if h == "" || col >= len(raw) || raw[col] == "" {
				continue
			}
			v, err := c.value(col+1, rowNum, raw[col])
			if err != nil {
				return nil, &ParseError{Op: fmt.Sprintf("read row %d", rowNum), Err: err}
			}
			row[h] = v
		}
		if len(row) > 0 {
			out.Rows = append(out.Rows, row)
			out.RowNumbers = append(out.RowNumbers, rowNum)
		}
	}
	return out, nil
}

type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

// value types one raw cell the way a spreadsheet user sees it.
func (c *cellReader) value(col, row int, raw string) (interface{}, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := c.f.GetCellType(c.sheet, cell)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return raw, nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
		isDate, err := c.isDateCell(cell)
		if err != nil {
			return nil, err
		}
		if isDate {
			if t, err := excelize.ExcelDateToTime(n, c.date1904); err == nil {
				return t, nil
			}
		}
	}
	return n, nil
}

func (c *cellReader) isDateCell(cell string) (bool, error) {
	styleID, err := c.f.GetCellStyle(c.sheet, cell)
	if err != nil || styleID == 0 {
		return false, err
	}
	if d, ok := c.dateStyles[styleID]; ok {
		return d, nil
	}
	style, err := c.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	d := isDateFormat(style.NumFmt, style.CustomNumFmt)
	c.dateStyles[styleID] = d
	return d, nil
}

var fmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		s := strings.ToLower(fmtLiterals.ReplaceAllString(*custom, ""))
		return strings.ContainsAny(s, "yd")
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}
