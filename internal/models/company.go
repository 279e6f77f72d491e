package models

import "time"

// Company is the reporting taxpayer. Only the most recent row is used.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RUC       string    `gorm:"size:11;uniqueIndex;not null" json:"ruc"`
	LegalName string    `gorm:"size:255;not null" json:"razonSocial"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Company) TableName() string { return "sisevo_empresa" }
