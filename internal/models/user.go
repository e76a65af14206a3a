package models

import "time"

// User is the credential-store row. Email is stored lowercased; the unique
// index is the authoritative guard against duplicate registrations.
type User struct {
	BaseModel
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	Nom           string    `gorm:"size:60;not null" json:"nom"`
	Prenom        string    `gorm:"size:60;not null" json:"prenom"`
	Genre         Genre     `gorm:"type:varchar(10);not null" json:"genre"`
	DateNaissance time.Time `gorm:"type:date;not null" json:"date_naissance"`

	Role           UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsActive       bool     `gorm:"default:true" json:"is_active"`
	EmailConfirmed bool     `gorm:"default:false" json:"email_confirmed"`

	// Single-use tokens. NULL means no pending operation; a consumed token is
	// always cleared so replay fails.
	EmailConfirmToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordToken *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry   *time.Time `json:"-"`

	LastLogin *time.Time `json:"last_login,omitempty"`
}

// CanAuthenticate reports whether the account may open a session.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.EmailConfirmed
}
