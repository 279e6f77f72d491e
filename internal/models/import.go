package models

import (
	"time"

	"gorm.io/datatypes"
)

// Import session states.
const (
	ImportUploaded    = "uploaded"
	ImportDistributed = "distributed"
	ImportFailed      = "failed"
)

// ImportFile is one uploaded workbook. ImportID is handed to the client on
// upload and must be sent back to distribute that exact file.
type ImportFile struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ImportID      string         `gorm:"size:36;uniqueIndex;not null" json:"importId"`
	UserID        *uint          `gorm:"index" json:"usuarioId,omitempty"`
	FileName      string         `gorm:"size:255;not null" json:"archivo"`
	FilePath      string         `gorm:"size:1024;not null" json:"-"`
	Size          int64          `json:"tamano"`
	Rows          int            `json:"filas"`
	Headers       datatypes.JSON `json:"headers"`
	Status        string         `gorm:"size:16;index;not null" json:"estado"`
	LastError     string         `gorm:"size:1024" json:"error,omitempty"`
	DistributedAt *time.Time     `json:"distribuidoEn,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (ImportFile) TableName() string { return "sisevo_importaciones" }
