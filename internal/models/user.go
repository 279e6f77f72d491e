package models

import "time"

// Roles.
const (
	RoleAdmin     = "admin"
	RoleCompany   = "empresa"
	RoleAssistant = "asistente"
)

// User represents an application user.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null;default:asistente"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;not null"`
	CompanyID    *uint  `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`
}

func (User) TableName() string { return "sisevo_users" }

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCompany, RoleAssistant:
		return true
	}
	return false
}
