package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func renderSheet(t *testing.T, s *Sheet) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, ref, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestRender_Formato71Layout(t *testing.T) {
	s := &Sheet{
		Kind:     KindFormato71,
		Title:    "FORMATO 7.1",
		Period:   "2024",
		Company:  Company{RUC: "20123456789", LegalName: "Comercial Andina SAC"},
		Groups:   formato71Groups,
		Columns:  formato71Columns,
		LabelKey: "numeroSerie",
		Rows: []map[string]string{
			{"codigoActivo": "AF-001", "descripcion": "Laptop", "saldoInicial": amount(dec("100.005")), "porcentajeDepreciacion": "25.00"},
			{"codigoActivo": "AF-002", "descripcion": "Monitor", "saldoInicial": amount(dec("200.004")), "porcentajeDepreciacion": "10.00"},
		},
	}
	s.computeTotals()

	f := renderSheet(t, s)
	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	assert.Equal(t, "FORMATO 7.1", raw(t, f, "A1"))
	assert.Equal(t, "PERIODO:", raw(t, f, "A3"))
	assert.Equal(t, "2024", raw(t, f, "B3"))
	assert.Equal(t, "RUC:", raw(t, f, "A4"))
	assert.Equal(t, "20123456789", raw(t, f, "B4"))
	assert.Equal(t, "Comercial Andina SAC", raw(t, f, "B5"))

	// group headers on row 7, column headers on row 8
	assert.Equal(t, "IDENTIFICACIÓN DEL ACTIVO FIJO", raw(t, f, "A7"))
	assert.Equal(t, "MOVIMIENTOS DEL EJERCICIO", raw(t, f, "G7"))
	assert.Equal(t, "VALOR DEL ACTIVO FIJO", raw(t, f, "L7"))
	assert.Equal(t, "DATOS DE LA DEPRECIACIÓN", raw(t, f, "O7"))
	assert.Equal(t, "DEPRECIACIÓN", raw(t, f, "S7"))
	assert.Equal(t, "Código Relacionado", raw(t, f, "A8"))
	assert.Equal(t, "Depreciación Acumulada Ajustada por Inflación", raw(t, f, "Z8"))

	assert.Equal(t, "AF-001", raw(t, f, "A9"))
	assert.Equal(t, "100.01", raw(t, f, "G9"))
	assert.Equal(t, "200.00", raw(t, f, "G10"))

	assert.Equal(t, TotalsLabel, raw(t, f, "F11"))
	assert.Equal(t, "300.01", raw(t, f, "G11"))
	assert.Equal(t, "", raw(t, f, "S11"))

	merged, err := f.GetMergeCells(sheetName)
	require.NoError(t, err)
	refs := map[string]bool{}
	for _, m := range merged {
		refs[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, refs["A1:Z1"], "merged: %v", refs)
	assert.True(t, refs["A7:F7"])
	assert.True(t, refs["S7:Z7"])
}

func TestRender_Alignment(t *testing.T) {
	s := &Sheet{
		Kind:     KindSummary,
		Columns:  summaryColumns,
		LabelKey: "descripcion",
		Rows:     []map[string]string{{"codigo": "A", "descripcion": "Silla", "valorNeto": "10.00"}},
	}
	s.computeTotals()
	f := renderSheet(t, s)

	// no group row: headers on 7, data on 8, totals on 9
	assert.Equal(t, "Código", raw(t, f, "A7"))
	assert.Equal(t, "Silla", raw(t, f, "B8"))
	assert.Equal(t, TotalsLabel, raw(t, f, "B9"))
	assert.Equal(t, "10.00", raw(t, f, "F9"))

	alignment := func(ref string) string {
		id, err := f.GetCellStyle(sheetName, ref)
		require.NoError(t, err)
		st, err := f.GetStyle(id)
		require.NoError(t, err)
		require.NotNil(t, st.Alignment)
		return st.Alignment.Horizontal
	}
	assert.Equal(t, "left", alignment("A8"))
	assert.Equal(t, "right", alignment("F8"))

	id, err := f.GetCellStyle(sheetName, "F9")
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, st.Font)
	assert.True(t, st.Font.Bold)
}

func TestRender_EmptySheetHasNoTotalsRow(t *testing.T) {
	s := &Sheet{Kind: KindMovements, Columns: movementColumns, LabelKey: "activo"}
	s.computeTotals()
	f := renderSheet(t, s)

	assert.Equal(t, "Código", raw(t, f, "A7"))
	assert.Equal(t, "", raw(t, f, "B8"))
}
