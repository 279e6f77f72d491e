package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes headers and rows to the first sheet of a new workbook.
func buildWorkbook(t *testing.T, headers []string, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook_TypedCells(t *testing.T) {
	bought := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	buf := buildWorkbook(t,
		[]string{" CODIGO PRODUCTO ", "NOMBRE ACTIVO", "PORCT DEPRE", "Fecha", "Activo"},
		[]interface{}{"AF-001", "Laptop", 10, bought, true},
	)

	sheet, err := ParseWorkbook(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"CODIGO PRODUCTO", "NOMBRE ACTIVO", "PORCT DEPRE", "Fecha", "Activo"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	assert.Equal(t, "AF-001", row["CODIGO PRODUCTO"])
	assert.Equal(t, "Laptop", row["NOMBRE ACTIVO"])
	assert.Equal(t, float64(10), row["PORCT DEPRE"])
	assert.Equal(t, true, row["Activo"])

	got, ok := row["Fecha"].(time.Time)
	require.True(t, ok, "date cell parsed as %T", row["Fecha"])
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParseWorkbook_OmitsEmptyCellsAndRows(t *testing.T) {
	buf := buildWorkbook(t,
		[]string{"Código del Activo", "Descripción", "Marca"},
		[]interface{}{"A1", "Silla", nil},
		[]interface{}{nil, nil, nil},
		[]interface{}{"A2", "Mesa", "Acme"},
	)

	sheet, err := ParseWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []int{2, 4}, sheet.RowNumbers)
	assert.Equal(t, 4, sheet.RowNumber(1))

	_, hasBrand := sheet.Rows[0]["Marca"]
	assert.False(t, hasBrand)
	assert.Equal(t, "Acme", sheet.Rows[1]["Marca"])
}

func TestParseWorkbook_HeaderOnly(t *testing.T) {
	sheet, err := ParseWorkbook(buildWorkbook(t, []string{"CODIGO PRODUCTO"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"CODIGO PRODUCTO"}, sheet.Headers)
	assert.Empty(t, sheet.Rows)
}

func TestParseWorkbook_Invalid(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not a workbook"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "error = %v", err)

	_, err = ParseWorkbook(nil)
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestRowResolve_HeaderFallback(t *testing.T) {
	row := Row{
		"Código del Activo": "",
		"CODIGO PRODUCTO":   "X-9",
		"Descripción":       "Escritorio",
		"NOMBRE ACTIVO":     "ignorado",
		"PORCT DEPRE":       float64(0),
		"% Depreciación":    "25%",
		"Marca":             false,
	}

	assert.Equal(t, "X-9", row.Text(FieldCode))
	assert.Equal(t, "Escritorio", row.Text(FieldDescription))
	assert.Equal(t, "25%", row.Resolve(FieldPercentage))
	assert.Nil(t, row.Resolve(FieldBrand))
	assert.Equal(t, "", row.Text(FieldSerial))
}

func TestRowResolve_ExactKeys(t *testing.T) {
	row := Row{"codigo producto": "A", "Descripcion": "sin tilde"}
	assert.Equal(t, "", row.Text(FieldCode))
	assert.Equal(t, "", row.Text(FieldDescription))
}

func TestRowText_NumericCode(t *testing.T) {
	row := Row{"CODIGO PRODUCTO": float64(1001)}
	assert.Equal(t, "1001", row.Text(FieldCode))
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
	assert.True(t, isDateFormat(0, custom("dd/mm/yyyy")))
	assert.False(t, isDateFormat(0, custom(`#,##0.00 "días"`)))
	assert.False(t, isDateFormat(0, custom("[Red]0.00")))
}
