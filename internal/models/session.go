package models

import "time"

// Session stores user login sessions so that logout can revoke a token.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID, also the JWT id
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Session) TableName() string { return "sisevo_sessions" }
