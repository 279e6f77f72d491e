package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are stored as text so the exact decimal string survives a round
// trip on every driver.

// Movement is the yearly change record of an asset's carrying balance.
type Movement struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	AssetID          uint            `gorm:"index;not null" json:"activoId"`
	Year             int             `gorm:"index;not null" json:"anio"`
	OpeningBalance   decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"saldoInicial"`
	Additions        decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"adquisiciones"`
	Improvements     decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"mejoras"`
	Disposals        decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"retiros"`
	OtherAdjustments decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"otrosAjustes"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"activo,omitempty"`
}

func (Movement) TableName() string { return "sisevo_movimientos" }

// ClosingBalance is opening + additions + improvements - disposals + other adjustments.
func (m *Movement) ClosingBalance() decimal.Decimal {
	return m.OpeningBalance.
		Add(m.Additions).
		Add(m.Improvements).
		Sub(m.Disposals).
		Add(m.OtherAdjustments)
}

// Valuation holds the historical and inflation-adjusted value of an asset for a year.
type Valuation struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	AssetID             uint            `gorm:"index;not null" json:"activoId"`
	Year                int             `gorm:"index;not null" json:"anio"`
	HistoricalValue     decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"valorHistorico"`
	InflationAdjustment decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"ajustePorInflacion"`
	AdjustedValue       decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"valorAjustado"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"activo,omitempty"`
}

func (Valuation) TableName() string { return "sisevo_valoracion" }

// Recompute sets AdjustedValue = HistoricalValue + InflationAdjustment.
func (v *Valuation) Recompute() {
	v.AdjustedValue = v.HistoricalValue.Add(v.InflationAdjustment)
}

// Depreciation holds the yearly depreciation amounts of an asset.
// One row per (asset, year) by convention; the schema does not enforce it.
type Depreciation struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	AssetID               uint            `gorm:"index;not null" json:"activoId"`
	Year                  int             `gorm:"index;not null" json:"anio"`
	Percentage            decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"porcentajeDepreciacion"`
	PriorAccumulated      decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionAcumuladaAnterior"`
	PeriodExpense         decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionEjercicio"`
	Disposals             decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionRetiros"`
	OtherAdjustments      decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionOtrosAjustes"`
	HistoricalAccumulated decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionAcumuladaHistorica"`
	InflationAdjustment   decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"ajustePorInflacionDepreciacion"`
	AdjustedAccumulated   decimal.Decimal `gorm:"type:varchar(32);not null;default:0" json:"depreciacionAcumuladaAjustada"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"activo,omitempty"`
}

func (Depreciation) TableName() string { return "sisevo_depreciacion" }
