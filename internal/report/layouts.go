package report

import (
	"context"
	"fmt"

	"github.com/crisdel29/siscontevolucion/internal/models"

	"github.com/shopspring/decimal"
)

func text(key, header string, width float64) Column {
	return Column{Key: key, Header: header, Width: width}
}

func money(key, header string) Column {
	return Column{Key: key, Header: header, Numeric: true, Total: true, Width: 16}
}

// formato71 is the SUNAT "Registro de activos fijos - detalle" layout.
type formato71 struct{}

var formato71Groups = []Group{
	{Title: "IDENTIFICACIÓN DEL ACTIVO FIJO", Span: 6},
	{Title: "MOVIMIENTOS DEL EJERCICIO", Span: 5},
	{Title: "VALOR DEL ACTIVO FIJO", Span: 3},
	{Title: "DATOS DE LA DEPRECIACIÓN", Span: 4},
	{Title: "DEPRECIACIÓN", Span: 8},
}

var formato71Columns = []Column{
	text("codigoActivo", "Código Relacionado", 14),
	text("cuentaContable", "Cuenta Contable", 12),
	text("descripcion", "Descripción", 32),
	text("marca", "Marca", 14),
	text("modelo", "Modelo", 14),
	text("numeroSerie", "N° Serie/Placa", 16),

	money("saldoInicial", "Saldo Inicial"),
	money("adquisiciones", "Adquisiciones/Adiciones"),
	money("mejoras", "Mejoras"),
	money("retiros", "Retiros y/o Bajas"),
	money("otrosAjustes", "Otros Ajustes"),

	money("valorHistorico", "Valor Histórico del Activo Fijo al 31.12"),
	money("ajustePorInflacion", "Ajuste por Inflación"),
	money("valorAjustado", "Valor Ajustado del Activo Fijo al 31.12"),

	text("fechaAdquisicion", "Fecha de Adquisición", 14),
	text("fechaUso", "Fecha de Inicio del Uso del Activo Fijo", 14),
	text("metodoAplicado", "Método Aplicado", 18),
	text("numeroAutorizacion", "N° de Documento de Autorización", 18),

	{Key: "porcentajeDepreciacion", Header: "Porcentaje de Depreciación", Numeric: true, Width: 14},
	money("depreciacionAcumuladaAnterior", "Depreciación Acumulada al Cierre del Ejercicio Anterior"),
	money("depreciacionEjercicio", "Depreciación del Ejercicio"),
	money("depreciacionRetiros", "Depreciación del Ejercicio Relacionada con los Retiros y/o Bajas"),
	money("depreciacionOtrosAjustes", "Depreciación Relacionada con Otros Ajustes"),
	money("depreciacionAcumuladaHistorica", "Depreciación Acumulada Histórica"),
	money("ajustePorInflacionDepreciacion", "Ajuste por Inflación de la Depreciación"),
	money("depreciacionAcumuladaAjustada", "Depreciación Acumulada Ajustada por Inflación"),
}

func (formato71) load(ctx context.Context, e *Engine, d *dataset) error {
	if err := e.loadAssets(ctx, d); err != nil {
		return err
	}
	return e.loadLedger(ctx, d)
}

func (formato71) build(e *Engine, d *dataset) *Sheet {
	s := &Sheet{
		Title:    `FORMATO 7.1: "REGISTRO DE ACTIVOS FIJOS - DETALLE DE LOS ACTIVOS FIJOS"`,
		Groups:   formato71Groups,
		Columns:  formato71Columns,
		LabelKey: "numeroSerie",
	}
	for _, a := range d.assets {
		mov := d.movements[a.ID]
		if mov == nil {
			mov = &models.Movement{}
		}
		val := d.valuations[a.ID]
		if val == nil {
			val = &models.Valuation{}
		}
		dep := d.depreciations[a.ID]
		if dep == nil {
			dep = &models.Depreciation{}
		}

		s.Rows = append(s.Rows, map[string]string{
			"codigoActivo":   a.Code,
			"cuentaContable": a.AccountCode,
			"descripcion":    a.Description,
			"marca":          a.Brand,
			"modelo":         a.Model,
			"numeroSerie":    a.Serial,

			"saldoInicial":  amount(mov.OpeningBalance),
			"adquisiciones": amount(mov.Additions),
			"mejoras":       amount(mov.Improvements),
			"retiros":       amount(mov.Disposals),
			"otrosAjustes":  amount(mov.OtherAdjustments),

			"valorHistorico":     amount(val.HistoricalValue),
			"ajustePorInflacion": amount(val.InflationAdjustment),
			"valorAjustado":      amount(val.AdjustedValue),

			"fechaAdquisicion":   e.formatDate(a.Code, "fechaAdquisicion", a.AcquiredAt),
			"fechaUso":           e.formatDate(a.Code, "fechaUso", a.InServiceAt),
			"metodoAplicado":     a.Method,
			"numeroAutorizacion": a.AuthorizationDoc,

			"porcentajeDepreciacion":         amount(dep.Percentage),
			"depreciacionAcumuladaAnterior":  amount(dep.PriorAccumulated),
			"depreciacionEjercicio":          amount(dep.PeriodExpense),
			"depreciacionRetiros":            amount(dep.Disposals),
			"depreciacionOtrosAjustes":       amount(dep.OtherAdjustments),
			"depreciacionAcumuladaHistorica": amount(dep.HistoricalAccumulated),
			"ajustePorInflacionDepreciacion": amount(dep.InflationAdjustment),
			"depreciacionAcumuladaAjustada":  amount(dep.AdjustedAccumulated),
		})
	}
	return s
}

// summary lists the net book value of every asset.
type summary struct{}

var summaryColumns = []Column{
	text("codigo", "Código", 14),
	text("descripcion", "Descripción", 32),
	money("valorHistorico", "Valor Histórico"),
	money("valorAjustado", "Valor Ajustado"),
	money("depreciacionAcumulada", "Depreciación Acumulada"),
	money("valorNeto", "Valor Neto"),
}

func (summary) load(ctx context.Context, e *Engine, d *dataset) error {
	if err := e.loadAssets(ctx, d); err != nil {
		return err
	}
	return e.loadLedger(ctx, d)
}

func (summary) build(_ *Engine, d *dataset) *Sheet {
	s := &Sheet{
		Title:    "RESUMEN GENERAL DE ACTIVOS FIJOS",
		Columns:  summaryColumns,
		LabelKey: "descripcion",
	}
	for _, a := range d.assets {
		historical, adjusted, accumulated := decimal.Zero, decimal.Zero, decimal.Zero
		if v := d.valuations[a.ID]; v != nil {
			historical, adjusted = v.HistoricalValue, v.AdjustedValue
		}
		if dep := d.depreciations[a.ID]; dep != nil {
			accumulated = dep.AdjustedAccumulated
		}
		adjusted = adjusted.Round(2)
		accumulated = accumulated.Round(2)

		s.Rows = append(s.Rows, map[string]string{
			"codigo":                a.Code,
			"descripcion":           a.Description,
			"valorHistorico":        amount(historical),
			"valorAjustado":         amount(adjusted),
			"depreciacionAcumulada": amount(accumulated),
			"valorNeto":             amount(adjusted.Sub(accumulated)),
		})
	}
	return s
}

// movements lists the movement rows of the period with their closing balance.
type movements struct{}

var movementColumns = []Column{
	text("codigo", "Código", 14),
	text("activo", "Activo", 32),
	text("anio", "Año", 8),
	money("saldoInicial", "Saldo Inicial"),
	money("adquisiciones", "Adquisiciones"),
	money("mejoras", "Mejoras"),
	money("retiros", "Retiros/Bajas"),
	money("otrosAjustes", "Otros Ajustes"),
	money("saldoFinal", "Saldo Final"),
}

func (movements) load(ctx context.Context, e *Engine, d *dataset) error {
	q := e.db.WithContext(ctx).Preload("Asset")
	if !d.period.All {
		q = q.Where("year = ?", d.period.Year)
	}
	if err := q.Order("year, asset_id, id").Find(&d.movementRows).Error; err != nil {
		return fmt.Errorf("load movements: %w", err)
	}
	return nil
}

func (movements) build(_ *Engine, d *dataset) *Sheet {
	s := &Sheet{
		Title:    "MOVIMIENTOS DEL EJERCICIO",
		Columns:  movementColumns,
		LabelKey: "activo",
	}
	for i := range d.movementRows {
		m := &d.movementRows[i]
		code, name := "", fmt.Sprintf("#%d", m.AssetID)
		if m.Asset != nil {
			code, name = m.Asset.Code, m.Asset.Description
		}
		s.Rows = append(s.Rows, map[string]string{
			"codigo":        code,
			"activo":        name,
			"anio":          fmt.Sprint(m.Year),
			"saldoInicial":  amount(m.OpeningBalance),
			"adquisiciones": amount(m.Additions),
			"mejoras":       amount(m.Improvements),
			"retiros":       amount(m.Disposals),
			"otrosAjustes":  amount(m.OtherAdjustments),
			"saldoFinal":    amount(m.ClosingBalance()),
		})
	}
	return s
}
