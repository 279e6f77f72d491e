package models

import "time"

// Depreciation methods accepted by Formato 7.1.
const (
	MethodStraightLine      = "LINEA_RECTA"
	MethodUnitsOfProduction = "UNIDADES_PRODUCIDAS"
	MethodOther             = "OTROS"
)

const (
	StatusActive       = "ACTIVO"
	DefaultAccountCode = "33"
)

// Asset is a fixed asset as registered for tax reporting.
// Code is the business key but it is not unique in the table: importers
// match on it, the database does not enforce it.
type Asset struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Code             string    `gorm:"size:64;index;not null" json:"codigoActivo"`
	AccountCode      string    `gorm:"size:32;default:33" json:"cuentaContable"`
	Description      string    `gorm:"size:255;not null" json:"descripcion"`
	Brand            string    `gorm:"size:128" json:"marca"`
	Model            string    `gorm:"size:128" json:"modelo"`
	Serial           string    `gorm:"size:128" json:"numeroSerie"`
	AcquiredAt       time.Time `gorm:"not null" json:"fechaAdquisicion"`
	InServiceAt      time.Time `gorm:"index;not null" json:"fechaUso"`
	Method           string    `gorm:"size:32;default:LINEA_RECTA" json:"metodoAplicado"`
	Status           string    `gorm:"size:32;default:ACTIVO" json:"estado"`
	AuthorizationDoc string    `gorm:"size:64" json:"numeroAutorizacion"`
	CompanyID        *uint     `gorm:"index" json:"empresaId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Asset) TableName() string { return "sisevo_activos" }

// ServiceYear is the calendar year of an in-service date. Dates are kept
// as UTC midnight of the calendar day, so the UTC year is the one entered.
func ServiceYear(t time.Time) int {
	return t.UTC().Year()
}

// ServiceYear returns the year the asset was put in use.
func (a *Asset) ServiceYear() int {
	return ServiceYear(a.InServiceAt)
}

// CalendarDay returns midnight UTC of t's calendar day in t's own zone.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidMethod reports whether m is one of the accepted depreciation methods.
func ValidMethod(m string) bool {
	switch m {
	case MethodStraightLine, MethodUnitsOfProduction, MethodOther:
		return true
	}
	return false
}
